package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	LLMProvider string `yaml:"llm_provider"`

	GeminiAPIKey      string `yaml:"gemini_api_key"`
	GeminiModel       string `yaml:"gemini_model"`
	GeminiVisionModel string `yaml:"gemini_vision_model"`
	OpenAIAPIKey      string `yaml:"openai_api_key"`
	OpenAIModel       string `yaml:"openai_model"`
	OpenAIBaseURL     string `yaml:"openai_base_url"`

	PromptDir string `yaml:"prompt_dir"`

	TelegramBotToken string `yaml:"telegram_bot_token"`
	WebhookURL       string `yaml:"webhook_url"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func defaults() Config {
	return Config{
		Port:              "3001",
		LLMProvider:       "gemini",
		GeminiModel:       "gemini-2.5-flash",
		GeminiVisionModel: "gemini-2.5-pro",
		OpenAIModel:       "gpt-4o-mini",
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads defaults, then the YAML file at path (if non-empty), then
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("config: invalid PORT %q: %w", cfg.Port, err)
	}
	cfg.LLMProvider = strings.ToLower(getEnv("LLM_PROVIDER", cfg.LLMProvider))

	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", getEnv("GEMINI_KEY", cfg.GeminiAPIKey))
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.GeminiVisionModel = getEnv("GEMINI_VISION_MODEL", cfg.GeminiVisionModel)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)

	cfg.PromptDir = getEnv("PROMPT_DIR", cfg.PromptDir)

	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.WebhookURL = getEnv("WEBHOOK_URL", cfg.WebhookURL)

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", cfg.LogFormat))

	return &cfg, nil
}

// Validate checks that the selected provider has a credential.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "", "gemini":
		if c.GeminiAPIKey == "" {
			return errors.New("config: GEMINI_API_KEY is required for provider gemini")
		}
	case "gpt", "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("config: OPENAI_API_KEY is required for provider openai")
		}
	case "mock":
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.TelegramBotToken == "" {
		return errors.New("config: TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func (c *Config) Addr() string { return ":" + c.Port }

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Summary is safe to log: credentials are reported as set or unset only.
func (c *Config) Summary() []any {
	return []any{
		"port", c.Port,
		"provider", c.LLMProvider,
		"gemini_model", c.GeminiModel,
		"gemini_vision_model", c.GeminiVisionModel,
		"openai_model", c.OpenAIModel,
		"gemini_key_set", c.GeminiAPIKey != "",
		"openai_key_set", c.OpenAIAPIKey != "",
		"prompt_dir", c.PromptDir,
	}
}
