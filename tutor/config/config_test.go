package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("CHAT_MODEL", "")
	t.Setenv("TUTOR_SERVER_URL", "")
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("MINIO_BUCKET", "")

	cfg := LoadConfig()

	assert.Equal(t, ":8000", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Equal(t, "gpt-4o-mini", cfg.SuggestionModel)
	assert.Equal(t, "https://echo.merit.systems", cfg.EchoBaseURL)
	assert.False(t, cfg.LocalesEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ECHO_APP_ID", "app-123")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_BUCKET", "locales")

	cfg := LoadConfig()

	assert.Equal(t, "app-123", cfg.EchoAppID)
	assert.True(t, cfg.SecureCookies)
	assert.True(t, cfg.LocalesEnabled())
}
