package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"historytutor/tutor/sources/storage"
	"historytutor/tutor/utils/color"
	"historytutor/tutor/utils/types"

	"github.com/magiconair/properties"
	"github.com/spf13/cobra"
)

var localesCmd = &cobra.Command{
	Use:   "locales",
	Short: "Manage translation overlays in the locale bucket",
}

var localesPushCmd = &cobra.Command{
	Use:   "push <lang> <file>",
	Short: "Upload a .properties overlay for a language",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := parseLanguage(args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		if _, err := properties.Load(data, properties.UTF8); err != nil {
			return fmt.Errorf("%s: %w", args[1], err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		bucket, err := openBucket(ctx)
		if err != nil {
			return err
		}
		key, err := bucket.PutLocaleBundle(ctx, lang, data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.ColorInfo("uploaded "+key))
		return nil
	},
}

var localesPullCmd = &cobra.Command{
	Use:   "pull <lang>",
	Short: "Print the overlay stored for a language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := parseLanguage(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		bucket, err := openBucket(ctx)
		if err != nil {
			return err
		}
		data, err := bucket.GetLocaleBundle(ctx, lang)
		if err != nil {
			return err
		}
		if data == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), color.ColorWarning("no overlay for "+string(lang)))
			return nil
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	localesCmd.AddCommand(localesPushCmd, localesPullCmd)
	rootCmd.AddCommand(localesCmd)
}

func parseLanguage(s string) (types.Language, error) {
	lang := types.Language(s)
	if !lang.Valid() {
		return "", fmt.Errorf("unsupported language %q (want en, es or ht)", s)
	}
	return lang, nil
}

func openBucket(ctx context.Context) (*storage.MinIOClient, error) {
	if !cfg.LocalesEnabled() {
		return nil, errors.New("MINIO_ENDPOINT and MINIO_BUCKET must be set")
	}
	return storage.NewMinIOClient(ctx, cfg)
}
