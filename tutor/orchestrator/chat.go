package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"historytutor/tutor/services/llm"
	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusSubmitted Status = "submitted"
	StatusStreaming Status = "streaming"
)

var ErrEmptyStream = errors.New("stream ended without a reply")

// ChatStreamer opens one streamed reply for the conversation in req.
type ChatStreamer interface {
	Stream(ctx context.Context, req types.ChatRequest) (<-chan llm.Chunk, error)
}

// SuggestionGenerator is told when an exchange has completed.
type SuggestionGenerator interface {
	Regenerate(ctx context.Context, history []types.UIMessage) bool
}

// Chat owns the message list and drives one request at a time.
type Chat struct {
	streamer    ChatStreamer
	suggestions SuggestionGenerator
	newID       func() string

	mu       sync.Mutex
	messages []types.UIMessage
	status   Status
	err      error
	onChange func()
}

type ChatOption func(*Chat)

// WithIDGenerator replaces the uuid message ids.
func WithIDGenerator(fn func() string) ChatOption {
	return func(c *Chat) { c.newID = fn }
}

// NewChat builds an idle chat. suggestions may be nil.
func NewChat(streamer ChatStreamer, suggestions SuggestionGenerator, opts ...ChatOption) *Chat {
	c := &Chat{
		streamer:    streamer,
		suggestions: suggestions,
		newID:       uuid.NewString,
		status:      StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to run after every state change. fn must not call
// back into Submit.
func (c *Chat) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Chat) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Chat) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err is the failure of the last request, nil once a new one starts.
func (c *Chat) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Messages returns a copy of the conversation.
func (c *Chat) Messages() []types.UIMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Chat) snapshot() []types.UIMessage {
	out := make([]types.UIMessage, len(c.messages))
	for i, m := range c.messages {
		m.Parts = append([]types.TextPart(nil), m.Parts...)
		out[i] = m
	}
	return out
}

// Reset clears the conversation. It reports false while a request is running.
func (c *Chat) Reset() bool {
	c.mu.Lock()
	if c.status != StatusIdle {
		c.mu.Unlock()
		return false
	}
	c.messages = nil
	c.err = nil
	c.mu.Unlock()
	c.notify()
	return true
}

// Submit sends text as a user message tagged with lang and blocks until the
// reply has streamed in. It reports false and does nothing when text is
// blank or another request is outstanding. A streaming failure keeps the
// partial reply, is returned, and is also reported by Err.
func (c *Chat) Submit(ctx context.Context, text string, lang types.Language) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, nil
	}

	c.mu.Lock()
	if c.status != StatusIdle {
		c.mu.Unlock()
		return false, nil
	}
	user := types.NewTextMessage(c.newID(), types.RoleUser, text)
	user.Metadata = &types.MessageMetadata{Language: lang}
	c.messages = append(c.messages, user)
	c.status = StatusSubmitted
	c.err = nil
	history := c.snapshot()
	c.mu.Unlock()
	c.notify()

	defer logging.LogDuration(ctx, "Chat.Submit")()

	ch, err := c.streamer.Stream(ctx, types.ChatRequest{Messages: history, Language: lang})
	if err != nil {
		return true, c.fail(err)
	}

	assistant := -1
	var streamErr error
	for chunk := range ch {
		if streamErr != nil {
			continue
		}
		if chunk.Err != nil {
			streamErr = chunk.Err
			continue
		}
		if chunk.Content == "" {
			continue
		}
		c.mu.Lock()
		if assistant < 0 {
			c.messages = append(c.messages, types.NewTextMessage(c.newID(), types.RoleAssistant, ""))
			assistant = len(c.messages) - 1
			c.status = StatusStreaming
		}
		c.messages[assistant].Parts[0].Text += chunk.Content
		c.mu.Unlock()
		c.notify()
	}
	// A cancelled context may close the channel without an error chunk.
	if streamErr == nil {
		streamErr = ctx.Err()
	}
	if streamErr == nil && assistant < 0 {
		streamErr = ErrEmptyStream
	}
	if streamErr != nil {
		return true, c.fail(streamErr)
	}

	c.mu.Lock()
	c.status = StatusIdle
	history = c.snapshot()
	c.mu.Unlock()
	c.notify()

	if c.suggestions != nil && exchangeCompleted(history) {
		c.suggestions.Regenerate(ctx, history)
	}
	return true, nil
}

func (c *Chat) fail(err error) error {
	logging.ErrorLogger.Error("chat stream failed", zap.Error(err))
	c.mu.Lock()
	c.status = StatusIdle
	c.err = err
	c.mu.Unlock()
	c.notify()
	return err
}

// exchangeCompleted reports whether history ends with a user message
// followed by an assistant reply.
func exchangeCompleted(history []types.UIMessage) bool {
	n := len(history)
	return n >= 2 && history[n-2].Role == types.RoleUser && history[n-1].Role == types.RoleAssistant
}
