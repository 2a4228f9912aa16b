package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all service configuration
type Config struct {
	// HTTP server settings
	HTTPAddress string

	// Language model settings
	Provider        string // openai, anthropic or gemini
	Model           string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string

	// Pipeline settings
	PipelineMode   string // staged or combined
	RequestTimeout time.Duration

	// Grid settings
	DefaultRows int
}

// LoadConfig loads configuration from files and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Configure environment variables - do this BEFORE reading config
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set up explicit mappings between struct fields and environment variables
	envMappings := map[string]string{
		"HTTPAddress":     "HTTP_ADDRESS",
		"Provider":        "LLM_PROVIDER",
		"Model":           "LLM_MODEL",
		"OpenAIAPIKey":    "OPENAI_API_KEY",
		"AnthropicAPIKey": "ANTHROPIC_API_KEY",
		"GeminiAPIKey":    "GEMINI_API_KEY",
		"PipelineMode":    "PIPELINE_MODE",
		"RequestTimeout":  "REQUEST_TIMEOUT",
		"DefaultRows":     "DEFAULT_ROWS",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	// Configure the config file settings
	v.SetConfigName("triagegrid_config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.triagegrid")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTPAddress", ":8080")
	v.SetDefault("Provider", "openai")
	v.SetDefault("Model", "gpt-4o")
	v.SetDefault("PipelineMode", "staged")
	v.SetDefault("RequestTimeout", 30*time.Second)
	v.SetDefault("DefaultRows", 4)
}

// validateConfig validates the configuration. A missing API key is a
// warning, never a startup failure: classification calls will fail at
// request time and fall back to their default values.
func validateConfig(config *Config) error {
	switch config.Provider {
	case "openai", "anthropic", "gemini":
	default:
		return fmt.Errorf("unknown provider %q (expected openai, anthropic or gemini)", config.Provider)
	}

	switch config.PipelineMode {
	case "staged", "combined":
	default:
		return fmt.Errorf("unknown pipeline mode %q (expected staged or combined)", config.PipelineMode)
	}

	if config.DefaultRows < 1 {
		return fmt.Errorf("default rows must be at least 1, got %d", config.DefaultRows)
	}

	if config.APIKey() == "" {
		log.Warn().
			Str("provider", config.Provider).
			Msg("No API key configured; classifications will fall back to default values")
	}

	return nil
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	}
	return ""
}
