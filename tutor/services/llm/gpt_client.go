package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	httputils "historytutor/tutor/utils/http"
	"historytutor/tutor/utils/logging"

	"go.uber.org/zap"
)

// ErrNoChoices is returned when a completion carries no message.
var ErrNoChoices = errors.New("no content in completion response")

// GPTClient speaks the OpenAI chat completions protocol. Pointed at the Echo
// router, the caller's Echo access token is the API key and usage is billed
// to that user.
type GPTClient struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*GPTClient)

func WithHTTPClient(c *http.Client) Option {
	return func(g *GPTClient) {
		g.httpClient = c
	}
}

func NewGPTClient(baseURL string, opts ...Option) *GPTClient {
	c := &GPTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// no overall timeout: streams stay open as long as the model writes
		httpClient: &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: 60 * time.Second,
		}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *GPTClient) completionsURL() string {
	if strings.HasSuffix(c.baseURL, "/v1") {
		return c.baseURL + "/chat/completions"
	}
	return c.baseURL + "/v1/chat/completions"
}

type gptResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type gptStreamResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Run executes a single completion request (non-streaming)
func (c *GPTClient) Run(ctx context.Context, apiKey string, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "gpt_service_run")()

	req.Stream = false
	var parsed gptResponse
	if err := httputils.PostJSONWithAuth(ctx, c.httpClient, c.completionsURL(), apiKey, req, &parsed); err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrNoChoices
	}
	return parsed.Choices[0].Message.Content, nil
}

// RunStream handles streaming responses (OpenAI-compatible SSE)
func (c *GPTClient) RunStream(ctx context.Context, apiKey string, req ChatRequest) (<-chan Chunk, error) {
	done := logging.LogDuration(ctx, "gpt_service_run_stream")

	req.Stream = true
	body, err := httputils.PostStreamWithAuth(ctx, c.httpClient, c.completionsURL(), apiKey, req)
	if err != nil {
		done()
		return nil, fmt.Errorf("stream request: %w", err)
	}

	ch := make(chan Chunk)
	go func() {
		defer func() {
			body.Close()
			close(ch)
			done()
		}()
		readSSE(ctx, body, ch)
	}()
	return ch, nil
}

func send(ctx context.Context, ch chan<- Chunk, chunk Chunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

func readSSE(ctx context.Context, body io.Reader, ch chan<- Chunk) {
	reader := bufio.NewReader(body)
	finished := false
	for {
		select {
		case <-ctx.Done():
			logging.AppLogger.Info("GPT stream context cancelled")
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			if err == io.EOF {
				// a stream cut before finish_reason or [DONE] is truncated
				if !finished {
					send(ctx, ch, Chunk{Err: io.ErrUnexpectedEOF})
				}
				return
			}
			logging.ErrorLogger.Error("GPT stream read error", zap.Error(err))
			send(ctx, ch, Chunk{Err: err})
			return
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return
		}

		var chunk gptStreamResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			logging.ErrorLogger.Error("GPT stream JSON parse error",
				zap.Error(err), zap.String("raw_line", data))
			continue
		}
		if chunk.Error != nil {
			send(ctx, ch, Chunk{Err: fmt.Errorf("provider error: %s", chunk.Error.Message)})
			return
		}
		for _, choice := range chunk.Choices {
			if choice.FinishReason != "" {
				finished = true
			}
			if choice.Delta.Content == "" {
				continue
			}
			if !send(ctx, ch, Chunk{Content: choice.Delta.Content}) {
				return
			}
		}
	}
}
