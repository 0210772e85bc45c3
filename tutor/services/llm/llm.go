// historytutor/tutor/services/llm/llm.go
package llm

import (
	"context"
	"encoding/json"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Stream         bool            `json:"stream"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ResponseFormat struct {
	Type       string     `json:"type"`
	JSONSchema JSONSchema `json:"json_schema"`
}

type JSONSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

// Chunk is one streamed delta. A chunk with Err set is the last one sent.
type Chunk struct {
	Content string
	Err     error
}

// Client runs chat completions on behalf of the user holding apiKey.
type Client interface {
	Run(ctx context.Context, apiKey string, req ChatRequest) (string, error)
	RunStream(ctx context.Context, apiKey string, req ChatRequest) (<-chan Chunk, error)
}
