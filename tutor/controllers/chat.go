// historytutor/tutor/controllers/chat.go
package controllers

import (
	"context"
	"errors"

	"historytutor/tutor/prompts"
	"historytutor/tutor/services/llm"
	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"go.uber.org/zap"
)

var ErrNoMessages = errors.New("messages must not be empty")

type ChatController struct {
	llm     llm.Client
	prompts *prompts.TutorConfig
	model   string
}

func NewChatController(client llm.Client, tutor *prompts.TutorConfig, model string) *ChatController {
	return &ChatController{llm: client, prompts: tutor, model: model}
}

// toLLMMessages drops client-sent system messages and anything without text;
// the only system message is the one the server adds.
func toLLMMessages(msgs []types.UIMessage) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != types.RoleUser && m.Role != types.RoleAssistant {
			continue
		}
		text := m.Text()
		if text == "" {
			continue
		}
		out = append(out, llm.Message{Role: string(m.Role), Content: text})
	}
	return out
}

// ChatStream starts the tutor reply for req using the caller's Echo token.
func (c *ChatController) ChatStream(ctx context.Context, token string, req types.ChatRequest) (<-chan llm.Chunk, error) {
	history := toLLMMessages(req.Messages)
	if len(history) == 0 {
		return nil, ErrNoMessages
	}
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: string(types.RoleSystem), Content: c.prompts.SystemPromptFor(req.Language)})
	messages = append(messages, history...)

	logging.AppLogger.Info("chat stream",
		zap.String("language", string(req.Language)),
		zap.Int("messages", len(history)),
		zap.String("model", c.model),
	)
	return c.llm.RunStream(ctx, token, llm.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
}
