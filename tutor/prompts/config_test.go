package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"historytutor/tutor/utils/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "History Tutor", cfg.TutorName)
	assert.True(t, strings.HasPrefix(cfg.SystemPrompt, "You are a high school history tutor"))
	assert.Contains(t, cfg.SystemPrompt, "\nGuidelines for your responses:\n")
	assert.Equal(t, "What historical period should we explore first?", cfg.DefaultSuggestions[0])
	assert.Equal(t, "What questions should I be asking about this era?", cfg.FallbackSuggestions[5])
	assert.Len(t, cfg.LanguageInstructions, 3)
}

func TestSystemPromptForLanguage(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	es := cfg.SystemPromptFor(types.LanguageSpanish)
	assert.True(t, strings.HasSuffix(es, cfg.LanguageInstructions[types.LanguageSpanish]))
	assert.Contains(t, es, "español")

	unknown := cfg.SystemPromptFor("fr")
	assert.True(t, strings.HasSuffix(unknown, cfg.LanguageInstructions[types.LanguageEnglish]))
}

func TestSuggestionPromptTranscript(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	prompt := cfg.SuggestionPromptFor([]types.UIMessage{
		types.NewTextMessage("1", types.RoleUser, "Who was Julius Caesar?"),
		types.NewTextMessage("2", types.RoleAssistant, "A Roman general."),
	})
	assert.Contains(t, prompt, "Student: Who was Julius Caesar?\n\nHistory Tutor: A Roman general.")
	assert.NotContains(t, prompt, historyPlaceholder)
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.properties")
	require.NoError(t, os.WriteFile(path, []byte("tutor_name=Profe\nsuggestions_default_1=Start with Rome?\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Profe", cfg.TutorName)
	assert.Equal(t, "Start with Rome?", cfg.DefaultSuggestions[0])
	assert.Equal(t, "Can we talk about a famous historical figure?", cfg.DefaultSuggestions[1])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.properties"))
	assert.Error(t, err)
}
