// README: Config loader with env defaults for HTTP, DB, Redis, AI provider and chat settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var ErrInvalidConfig = errors.New("invalid config")

type ChatConfig struct {
	Timeout       time.Duration
	SessionTTL    time.Duration
	ConfirmWindow time.Duration
	// MonthlyReplies caps generated replies per account; 0 disables the cap.
	MonthlyReplies int
	SupportPhone   string
	Brand          string
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN           string
		MigrationsDir string
	}
	Redis struct {
		Addr string
	}
	AI struct {
		Provider    string
		GeminiKey   string
		GeminiModel string
		OpenAIKey   string
		OpenAIModel string
	}
	Chat     ChatConfig
	LogLevel string
}

// Load reads the environment. An empty DB DSN or Redis address selects the
// in-memory implementations.
func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("CAREBOT_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("CAREBOT_DB_DSN")
	cfg.DB.MigrationsDir = envOrDefault("CAREBOT_MIGRATIONS_DIR", "migrations")
	cfg.Redis.Addr = os.Getenv("CAREBOT_REDIS_ADDR")

	cfg.AI.Provider = strings.ToLower(envOrDefault("CAREBOT_AI_PROVIDER", ProviderGemini))
	cfg.AI.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.AI.GeminiModel = envOrDefault("CAREBOT_GEMINI_MODEL", "gemini-2.0-flash")
	cfg.AI.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AI.OpenAIModel = envOrDefault("CAREBOT_OPENAI_MODEL", "gpt-4o-mini")

	var err error
	if cfg.Chat.Timeout, err = envOrDefaultDuration("CAREBOT_CHAT_TIMEOUT", 20*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Chat.SessionTTL, err = envOrDefaultDuration("CAREBOT_SESSION_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.Chat.ConfirmWindow, err = envOrDefaultDuration("CAREBOT_CONFIRM_WINDOW", 0); err != nil {
		return cfg, err
	}
	cfg.Chat.MonthlyReplies = envOrDefaultInt("CAREBOT_MONTHLY_REPLIES", 0)
	cfg.Chat.SupportPhone = envOrDefault("CAREBOT_SUPPORT_PHONE", "1200")
	cfg.Chat.Brand = envOrDefault("CAREBOT_BRAND", "Odido")
	cfg.LogLevel = envOrDefault("CAREBOT_LOG_LEVEL", "info")

	return cfg, cfg.Validate()
}

// Validate checks that the selected provider has credentials and that the
// durations make sense.
func (c Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for provider %q", ErrInvalidConfig, c.AI.Provider)
		}
	case ProviderOpenAI:
		if c.AI.OpenAIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for provider %q", ErrInvalidConfig, c.AI.Provider)
		}
	default:
		return fmt.Errorf("%w: unknown AI provider %q", ErrInvalidConfig, c.AI.Provider)
	}
	if c.Chat.Timeout <= 0 {
		return fmt.Errorf("%w: CAREBOT_CHAT_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.Chat.ConfirmWindow < 0 || c.Chat.SessionTTL < 0 || c.Chat.MonthlyReplies < 0 {
		return fmt.Errorf("%w: negative chat setting", ErrInvalidConfig)
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return d, nil
}
