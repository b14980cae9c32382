package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is centralized process configuration.
// Values come from an optional YAML file (CONFIG_FILE) with environment
// variables taking precedence.
type Config struct {
	ServiceName string `yaml:"service_name"`
	HTTPPort    string `yaml:"http_port"`
	PostgresDSN string `yaml:"postgres_dsn"`

	MetaBaseURL    string `yaml:"meta_base_url"`
	MetaAPIVersion string `yaml:"meta_api_version"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	// TokenCipherKey is hex-encoded and must decode to 16, 24 or 32 bytes.
	TokenCipherKey string `yaml:"token_cipher_key"`

	WebhookEndpoint   string `yaml:"webhook_endpoint"`
	FallbackLinkURL   string `yaml:"fallback_link_url"`
	HostedPrivacyBase string `yaml:"hosted_privacy_base"`
}

func Load() (Config, error) {
	cfg := Config{}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg.ServiceName, "SERVICE_NAME")
	applyEnv(&cfg.HTTPPort, "HTTP_PORT")
	applyEnv(&cfg.PostgresDSN, "POSTGRES_DSN")
	applyEnv(&cfg.MetaBaseURL, "META_BASE_URL")
	applyEnv(&cfg.MetaAPIVersion, "META_API_VERSION")
	applyEnv(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	applyEnv(&cfg.GeminiModel, "GEMINI_MODEL")
	applyEnv(&cfg.TokenCipherKey, "TOKEN_CIPHER_KEY")
	applyEnv(&cfg.WebhookEndpoint, "WEBHOOK_ENDPOINT")
	applyEnv(&cfg.FallbackLinkURL, "FALLBACK_LINK_URL")
	applyEnv(&cfg.HostedPrivacyBase, "HOSTED_PRIVACY_BASE")

	if cfg.ServiceName == "" {
		cfg.ServiceName = "adpilot"
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
	if cfg.MetaBaseURL == "" {
		cfg.MetaBaseURL = "https://graph.facebook.com"
	}
	if cfg.MetaAPIVersion == "" {
		cfg.MetaAPIVersion = "v19.0"
	}
	return cfg, nil
}

func applyEnv(target *string, name string) {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		*target = value
	}
}
