package orchestrator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"historytutor/tutor/services/llm"
	"historytutor/tutor/services/uistream"
	httputils "historytutor/tutor/utils/http"
	"historytutor/tutor/utils/types"
)

const (
	chatPath        = "/api/chat"
	suggestionsPath = "/api/suggestions"
)

// HTTPChatStreamer reads replies from the server's UI message stream.
type HTTPChatStreamer struct {
	baseURL string
	client  httputils.Doer
}

// NewHTTPChatStreamer needs a client carrying the session cookies.
func NewHTTPChatStreamer(baseURL string, client httputils.Doer) *HTTPChatStreamer {
	return &HTTPChatStreamer{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *HTTPChatStreamer) Stream(ctx context.Context, req types.ChatRequest) (<-chan llm.Chunk, error) {
	body, err := httputils.PostStream(ctx, s.client, s.baseURL+chatPath, req)
	if err != nil {
		return nil, err
	}
	ch := make(chan llm.Chunk)
	go func() {
		defer close(ch)
		defer body.Close()
		r := uistream.NewReader(body)
		for {
			part, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				send(ctx, ch, llm.Chunk{Err: err})
				return
			}
			switch part.Type {
			case uistream.PartTextDelta:
				if !send(ctx, ch, llm.Chunk{Content: part.Delta}) {
					return
				}
			case uistream.PartError:
				send(ctx, ch, llm.Chunk{Err: fmt.Errorf("%w: %s", uistream.ErrStreamError, part.ErrorText)})
				return
			}
		}
	}()
	return ch, nil
}

func send(ctx context.Context, ch chan<- llm.Chunk, c llm.Chunk) bool {
	select {
	case ch <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

// HTTPSuggestionSource asks the server for follow-up prompts.
type HTTPSuggestionSource struct {
	baseURL string
	client  httputils.Doer
}

func NewHTTPSuggestionSource(baseURL string, client httputils.Doer) *HTTPSuggestionSource {
	return &HTTPSuggestionSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *HTTPSuggestionSource) Suggest(ctx context.Context, recent []types.UIMessage) (types.SuggestionSet, error) {
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	err := httputils.PostJSON(ctx, s.client, s.baseURL+suggestionsPath, types.SuggestionsRequest{Messages: recent}, &resp)
	if err != nil {
		return types.SuggestionSet{}, err
	}
	set, ok := types.SuggestionSetFrom(resp.Suggestions)
	if !ok {
		return types.SuggestionSet{}, fmt.Errorf("expected %d suggestions, got %d", types.SuggestionCount, len(resp.Suggestions))
	}
	return set, nil
}
