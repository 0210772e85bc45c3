package controllers

import (
	"context"
	"encoding/json"
	"fmt"

	"historytutor/tutor/prompts"
	"historytutor/tutor/services/llm"
	"historytutor/tutor/utils/jsonutils"
	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"go.uber.org/zap"
)

const recentWindow = 6

var suggestionSchema = json.RawMessage(fmt.Sprintf(`{
  "type": "object",
  "properties": {
    "suggestions": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": %[1]d,
      "maxItems": %[1]d
    }
  },
  "required": ["suggestions"],
  "additionalProperties": false
}`, types.SuggestionCount))

type SuggestionsController struct {
	llm     llm.Client
	prompts *prompts.TutorConfig
	model   string
}

func NewSuggestionsController(client llm.Client, tutor *prompts.TutorConfig, model string) *SuggestionsController {
	return &SuggestionsController{llm: client, prompts: tutor, model: model}
}

// Suggest always yields six prompts: the fixed defaults for an empty
// conversation, the generic fallback when the model call fails.
func (c *SuggestionsController) Suggest(ctx context.Context, token string, messages []types.UIMessage) types.SuggestionSet {
	defer logging.LogDuration(ctx, "SuggestionsController.Suggest")()

	if len(messages) == 0 {
		return c.prompts.DefaultSuggestions
	}
	if len(messages) > recentWindow {
		messages = messages[len(messages)-recentWindow:]
	}

	set, err := c.generate(ctx, token, messages)
	if err != nil {
		logging.ErrorLogger.Error("generate suggestions", zap.Error(err), zap.String("model", c.model))
		return c.prompts.FallbackSuggestions
	}
	return set
}

func (c *SuggestionsController) generate(ctx context.Context, token string, messages []types.UIMessage) (types.SuggestionSet, error) {
	out, err := c.llm.Run(ctx, token, llm.ChatRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: string(types.RoleUser), Content: c.prompts.SuggestionPromptFor(messages)},
		},
		ResponseFormat: &llm.ResponseFormat{
			Type: "json_schema",
			JSONSchema: llm.JSONSchema{
				Name:   "suggestions",
				Strict: true,
				Schema: suggestionSchema,
			},
		},
	})
	if err != nil {
		return types.SuggestionSet{}, err
	}

	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := jsonutils.Decode(out, &parsed); err != nil {
		return types.SuggestionSet{}, fmt.Errorf("decode suggestions: %w", err)
	}
	set, ok := types.SuggestionSetFrom(parsed.Suggestions)
	if !ok {
		return types.SuggestionSet{}, fmt.Errorf("model returned %d suggestions", len(parsed.Suggestions))
	}
	logging.AppLogger.Debug("suggestions generated", zap.String("set", jsonutils.ToJSON(set)))
	return set, nil
}
