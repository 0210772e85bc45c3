package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"historytutor/tutor/config"
	"historytutor/tutor/utils/types"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const localePrefix = "locales"

// MinIOClient serves locale overlay bundles from an S3-compatible bucket.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOSecure,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOClient{client: client, bucket: cfg.MinIOBucket}, nil
}

func localeKey(lang types.Language) string {
	return path.Join(localePrefix, string(lang)+".properties")
}

// GetLocaleBundle returns nil, nil when no overlay exists for lang.
func (m *MinIOClient) GetLocaleBundle(ctx context.Context, lang types.Language) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, localeKey(lang), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", localeKey(lang), err)
	}
	return data, nil
}

// PutLocaleBundle uploads a .properties overlay for lang.
func (m *MinIOClient) PutLocaleBundle(ctx context.Context, lang types.Language, data []byte) (string, error) {
	key := localeKey(lang)
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/x-java-properties; charset=utf-8"})
	if err != nil {
		return "", err
	}
	return key, nil
}
