package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// defaultModels is used when MODEL_NAME is unset.
var defaultModels = map[string]string{
	"openai": "o1-mini",
	"gemini": "gemini-1.5-flash",
}

type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis (optional; in-memory sessions when empty)
	RedisURL string `env:"REDIS_URL"`

	// Sessions
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// Chat-completion model
	APIKey         string        `env:"AIML_API_KEY,required,notEmpty"`
	ModelProvider  string        `env:"MODEL_PROVIDER" envDefault:"openai"`
	ModelBaseURL   string        `env:"MODEL_BASE_URL" envDefault:"https://api.aimlapi.com/v1"`
	ModelName      string        `env:"MODEL_NAME"` // defaults per provider
	ModelMaxTokens int           `env:"MODEL_MAX_TOKENS" envDefault:"2000"`
	RequestTimeout time.Duration `env:"MODEL_REQUEST_TIMEOUT" envDefault:"0s"`

	// Uploads
	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`

	// Frontend
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:8501"`
}

// Load reads the environment (and a .env file when present). A missing
// AIML_API_KEY is an error; the server must not start without it.
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	defaultModel, ok := defaultModels[cfg.ModelProvider]
	if !ok {
		return nil, fmt.Errorf("unsupported MODEL_PROVIDER %q", cfg.ModelProvider)
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaultModel
	}

	if cfg.ModelMaxTokens <= 0 {
		return nil, fmt.Errorf("MODEL_MAX_TOKENS must be positive, got %d", cfg.ModelMaxTokens)
	}

	return cfg, nil
}
