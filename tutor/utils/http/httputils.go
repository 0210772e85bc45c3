// historytutor/tutor/utils/http/httputils.go
package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

func clientOrDefault(c Doer) Doer {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

func newRequest(ctx context.Context, method, url, token string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func checkStatus(r *http.Response) error {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(r.Body, 4096))
	e := &StatusError{StatusCode: r.StatusCode, Body: string(b)}
	if r.Request != nil {
		e.URL = r.Request.URL.String()
	}
	return e
}

// DoJSON sends body (nil for none) as JSON and decodes the reply into resp (nil to discard).
func DoJSON(ctx context.Context, c Doer, method, url, token string, body, resp interface{}) error {
	req, err := newRequest(ctx, method, url, token, body)
	if err != nil {
		return err
	}
	r, err := clientOrDefault(c).Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if err := checkStatus(r); err != nil {
		return err
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}

func PostJSON(ctx context.Context, c Doer, url string, body interface{}, resp interface{}) error {
	return DoJSON(ctx, c, http.MethodPost, url, "", body, resp)
}

func PostJSONWithAuth(ctx context.Context, c Doer, url, token string, body interface{}, resp interface{}) error {
	return DoJSON(ctx, c, http.MethodPost, url, token, body, resp)
}

func GetJSONWithAuth(ctx context.Context, c Doer, url, token string, resp interface{}) error {
	return DoJSON(ctx, c, http.MethodGet, url, token, nil, resp)
}

// PostStream returns the open response body; the caller closes it.
func PostStream(ctx context.Context, c Doer, url string, body interface{}) (io.ReadCloser, error) {
	return PostStreamWithAuth(ctx, c, url, "", body)
}

func PostStreamWithAuth(ctx context.Context, c Doer, url, token string, body interface{}) (io.ReadCloser, error) {
	req, err := newRequest(ctx, http.MethodPost, url, token, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	r, err := clientOrDefault(c).Do(req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		r.Body.Close()
		return nil, err
	}
	return r.Body, nil
}
