package prompts

import (
	_ "embed"
	"fmt"
	"strings"

	"historytutor/tutor/utils/logging"
	"historytutor/tutor/utils/types"

	"github.com/magiconair/properties"
	"go.uber.org/zap"
)

//go:embed tutor.properties
var defaultProperties []byte

const historyPlaceholder = "{{history}}"

type TutorConfig struct {
	TutorName            string
	SystemPrompt         string
	LanguageInstructions map[types.Language]string
	SuggestionPrompt     string
	DefaultSuggestions   types.SuggestionSet
	FallbackSuggestions  types.SuggestionSet
}

// Load reads the tutor prompts. An empty path uses the embedded defaults;
// keys missing from an override file keep their embedded values.
func Load(path string) (*TutorConfig, error) {
	props, err := properties.Load(defaultProperties, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("embedded tutor properties: %w", err)
	}
	if path != "" {
		override, err := properties.LoadFile(path, properties.UTF8)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		props.Merge(override)
		logging.AppLogger.Info("tutor properties loaded", zap.String("path", path))
	}

	cfg := &TutorConfig{
		TutorName:            props.GetString("tutor_name", "History Tutor"),
		SystemPrompt:         props.GetString("system_prompt", ""),
		SuggestionPrompt:     props.GetString("suggestion_prompt", ""),
		LanguageInstructions: make(map[types.Language]string),
	}
	if cfg.SystemPrompt == "" {
		return nil, fmt.Errorf("system_prompt must not be empty")
	}
	if !strings.Contains(cfg.SuggestionPrompt, historyPlaceholder) {
		return nil, fmt.Errorf("suggestion_prompt must contain %s", historyPlaceholder)
	}

	for _, lang := range types.Languages {
		if v := props.GetString("language_instruction_"+string(lang), ""); v != "" {
			cfg.LanguageInstructions[lang] = v
		}
	}
	if _, ok := cfg.LanguageInstructions[types.LanguageEnglish]; !ok {
		return nil, fmt.Errorf("language_instruction_en must not be empty")
	}

	if cfg.DefaultSuggestions, err = suggestionList(props, "suggestions_default_"); err != nil {
		return nil, err
	}
	if cfg.FallbackSuggestions, err = suggestionList(props, "suggestions_fallback_"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func suggestionList(props *properties.Properties, prefix string) (types.SuggestionSet, error) {
	var set types.SuggestionSet
	for i := range set {
		key := fmt.Sprintf("%s%d", prefix, i+1)
		v := strings.TrimSpace(props.GetString(key, ""))
		if v == "" {
			return set, fmt.Errorf("missing %s", key)
		}
		set[i] = v
	}
	return set, nil
}

// SystemPromptFor appends the instruction for lang; unknown languages get English.
func (c *TutorConfig) SystemPromptFor(lang types.Language) string {
	instruction, ok := c.LanguageInstructions[lang]
	if !ok {
		instruction = c.LanguageInstructions[types.LanguageEnglish]
	}
	return c.SystemPrompt + "\n\n" + instruction
}

// SuggestionPromptFor renders recent messages as a Student / tutor transcript.
func (c *TutorConfig) SuggestionPromptFor(recent []types.UIMessage) string {
	lines := make([]string, 0, len(recent))
	for _, m := range recent {
		speaker := c.TutorName
		if m.Role == types.RoleUser {
			speaker = "Student"
		}
		lines = append(lines, speaker+": "+m.Text())
	}
	return strings.Replace(c.SuggestionPrompt, historyPlaceholder, strings.Join(lines, "\n\n"), 1)
}
