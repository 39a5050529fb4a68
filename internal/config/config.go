package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port              string        `yaml:"port"`
	ModelPath         string        `yaml:"model_path"`
	FormSecret        string        `yaml:"form_secret"`
	FormTokenTTL      time.Duration `yaml:"form_token_ttl"`
	APIKey            string        `yaml:"api_key"`
	AllowedOrigins    string        `yaml:"allowed_origins"`
	PredictRateLimit  int           `yaml:"predict_rate_limit"`
	PredictRateWindow time.Duration `yaml:"predict_rate_window"`
	LogLevel          string        `yaml:"log_level"`
	LogFile           string        `yaml:"log_file"`
}

func defaults() *Config {
	return &Config{
		Port:              "8080",
		ModelPath:         "diabetes_model.json",
		FormTokenTTL:      time.Hour,
		AllowedOrigins:    "*",
		PredictRateLimit:  30,
		PredictRateWindow: time.Minute,
		LogLevel:          "info",
	}
}

// Load starts from defaults, applies the YAML file named by CONFIG_FILE if
// set, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.ModelPath = getEnv("MODEL_PATH", cfg.ModelPath)
	cfg.FormSecret = getEnv("FORM_SECRET", cfg.FormSecret)
	cfg.APIKey = getEnv("API_KEY", cfg.APIKey)
	cfg.AllowedOrigins = getEnv("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	var err error
	if cfg.FormTokenTTL, err = getEnvDuration("FORM_TOKEN_TTL", cfg.FormTokenTTL); err != nil {
		return nil, err
	}
	if cfg.PredictRateWindow, err = getEnvDuration("PREDICT_RATE_WINDOW", cfg.PredictRateWindow); err != nil {
		return nil, err
	}
	if cfg.PredictRateLimit, err = getEnvInt("PREDICT_RATE_LIMIT", cfg.PredictRateLimit); err != nil {
		return nil, err
	}

	if cfg.FormSecret == "" {
		// tokens issued before a restart stop verifying; the form just asks
		// for a resubmit
		cfg.FormSecret = uuid.NewString()
	}
	if cfg.PredictRateLimit <= 0 {
		return nil, fmt.Errorf("predict rate limit must be positive, got %d", cfg.PredictRateLimit)
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(c); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
