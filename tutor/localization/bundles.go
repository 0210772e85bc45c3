package localization

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	httputils "historytutor/tutor/utils/http"
	"historytutor/tutor/utils/types"
)

// HTTPBundleSource fetches overlays from a server's /api/locales/{lang}.
type HTTPBundleSource struct {
	baseURL string
	client  httputils.Doer
}

func NewHTTPBundleSource(baseURL string, client httputils.Doer) *HTTPBundleSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPBundleSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *HTTPBundleSource) GetLocaleBundle(ctx context.Context, lang types.Language) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/locales/"+string(lang), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("locale bundle %s: status %d", lang, resp.StatusCode)
	}
}
