package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	LogDir     string
	ServerURL  string

	EchoAppID       string
	EchoBaseURL     string
	EchoRouterURL   string
	EchoRedirectURL string
	StateSecret     string
	SecureCookies   bool

	ChatModel       string
	SuggestionModel string
	PropertiesPath  string

	DBDriver   string
	SQLitePath string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOSecure    bool
}

// LocalesEnabled reports whether a locale overlay bucket is configured.
func (c Config) LocalesEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOBucket != ""
}

func LoadConfig() Config {
	// A missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	return Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8000"),
		LogDir:     getEnv("LOG_DIR", "./logs"),
		ServerURL:  getEnv("TUTOR_SERVER_URL", "http://localhost:8000"),

		EchoAppID:       getEnv("ECHO_APP_ID", ""),
		EchoBaseURL:     getEnv("ECHO_BASE_URL", "https://echo.merit.systems"),
		EchoRouterURL:   getEnv("ECHO_ROUTER_URL", "https://echo.router.merit.systems"),
		EchoRedirectURL: getEnv("ECHO_REDIRECT_URL", "http://localhost:8000/api/echo/callback"),
		StateSecret:     getEnv("STATE_SECRET", ""),
		SecureCookies:   getEnvBool("SECURE_COOKIES", false),

		ChatModel:       getEnv("CHAT_MODEL", "gpt-4o"),
		SuggestionModel: getEnv("SUGGESTION_MODEL", "gpt-4o-mini"),
		PropertiesPath:  getEnv("TUTOR_PROPERTIES", ""),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		SQLitePath: getEnv("SQLITE_PATH", "historytutor.db"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", ""),
		MinIOSecure:    getEnvBool("MINIO_SECURE", false),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
