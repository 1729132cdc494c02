package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. SCRY_LLM_GEMINI_API_KEY for llm.gemini_api_key.
const EnvPrefix = "SCRY"

// keys without defaults that still need to be resolvable from the environment
var envOnlyKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"llm.gemini_api_key",
	"llm.prompt_template_dir",
}

// setDefaults registers every default value. Defaults mirror the policy
// constants of the summarization pipeline.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.driver", "postgres")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.increment_temperature", 0.8)
	v.SetDefault("llm.requests_per_minute", 60)
	v.SetDefault("llm.request_timeout_seconds", 120)

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_delay_ms", 1000)
	v.SetDefault("retry.backoff_multiplier", 2.0)

	v.SetDefault("chunking.chunk_size", 4000)
	v.SetDefault("chunking.overlap", 200)
	v.SetDefault("chunking.max_chunks", 15)
	v.SetDefault("chunking.token_threshold", 100000)

	v.SetDefault("summary.max_document_chars", 900000)
	v.SetDefault("summary.parallel_chunks", false)
	v.SetDefault("summary.chunk_concurrency", 4)

	v.SetDefault("task.min_workers", 4)
	v.SetDefault("task.max_workers", 10)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.idle_timeout_seconds", 60)
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the given config file instead of
// searching for config.yaml in the working directory.
func LoadFrom(configFile string) (*Config, error) {
	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of a loaded configuration.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
