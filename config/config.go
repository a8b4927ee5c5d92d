package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ReplicateConfig holds the settings for the text-generation endpoint used
// to parse transaction descriptions.
type ReplicateConfig struct {
	Token     string `envconfig:"API_TOKEN" required:"true"`
	URL       string `envconfig:"API_URL" default:"https://api.replicate.com/v1/models/openai/o4-mini/predictions"`
	MaxTokens int    `envconfig:"MAX_TOKENS" default:"600"`
}

// WhatsAppConfig holds the settings for the 360dialog messaging API. The key
// may be empty; outbound sends then fail with a logged warning only.
type WhatsAppConfig struct {
	APIKey string `envconfig:"API_KEY"`
	URL    string `envconfig:"API_URL" default:"https://waba-sandbox.360dialog.io/v1/messages"`
}

type Config struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	DBUrl      string `envconfig:"DB_URL"`
	DBPath     string `envconfig:"DB_PATH" default:"finance.db"`

	Replicate ReplicateConfig `envconfig:"REPLICATE"`
	WhatsApp  WhatsAppConfig  `envconfig:"D360"`
}

// Load reads configuration from a .env file when present, falling back to
// the process environment.
func Load(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	// Catch the placeholder value from .env.example before it reaches the API.
	if strings.HasPrefix(cfg.Replicate.Token, "your_") {
		return nil, fmt.Errorf("REPLICATE_API_TOKEN is not set correctly: it should not start with 'your_'")
	}

	logger.Info("App config loaded",
		"port", cfg.ServerPort,
		"db_url_set", cfg.DBUrl != "",
		"db_path", cfg.DBPath,
		"replicate_token", maskKey(cfg.Replicate.Token),
		"whatsapp_key", maskKey(cfg.WhatsApp.APIKey),
	)
	return &cfg, nil
}

func maskKey(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
