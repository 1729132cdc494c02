package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Retry    RetryConfig    `mapstructure:"retry"    validate:"required"`
	Chunking ChunkingConfig `mapstructure:"chunking" validate:"required"`
	Summary  SummaryConfig  `mapstructure:"summary"  validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// Driver "memory" keeps documents and summaries in process and ignores URL.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL    string `mapstructure:"url"    validate:"required_if=Driver postgres"`
}

// AuthConfig contains bearer token settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	// BCryptCost is the work factor for password hashes; zero means bcrypt's default.
	BCryptCost int `mapstructure:"bcrypt_cost" validate:"omitempty,min=4,max=31"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// Temperature is used for full study-artifact generation.
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	// IncrementTemperature is used for the "generate more" calls.
	IncrementTemperature float64 `mapstructure:"increment_temperature" validate:"gte=0,lte=2"`

	// RequestsPerMinute throttles outgoing calls; zero disables throttling.
	RequestsPerMinute     int `mapstructure:"requests_per_minute"     validate:"gte=0"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gt=0"`

	// PromptTemplateDir optionally overrides the embedded prompt templates.
	PromptTemplateDir string `mapstructure:"prompt_template_dir"`
}

// RetryConfig controls the backoff executor wrapped around every LLM call.
type RetryConfig struct {
	MaxAttempts       int     `mapstructure:"max_attempts"       validate:"gte=1"`
	InitialDelayMs    int     `mapstructure:"initial_delay_ms"   validate:"gte=0"`
	BackoffMultiplier float64 `mapstructure:"backoff_multiplier" validate:"gte=1"`
}

// ChunkingConfig controls how oversized documents are split.
type ChunkingConfig struct {
	ChunkSize      int `mapstructure:"chunk_size"      validate:"gt=0"`
	Overlap        int `mapstructure:"overlap"         validate:"gte=0,ltfield=ChunkSize"`
	MaxChunks      int `mapstructure:"max_chunks"      validate:"gt=0"`
	TokenThreshold int `mapstructure:"token_threshold" validate:"gt=0"`
}

// SummaryConfig controls the orchestration of generation requests.
type SummaryConfig struct {
	// MaxDocumentChars bounds the raw text fed to incremental generation calls.
	MaxDocumentChars int  `mapstructure:"max_document_chars" validate:"gt=0"`
	ParallelChunks   bool `mapstructure:"parallel_chunks"`
	ChunkConcurrency int  `mapstructure:"chunk_concurrency"  validate:"gte=1"`
}

// TaskConfig sizes the worker pool that runs orchestration requests.
type TaskConfig struct {
	MinWorkers         int `mapstructure:"min_workers"          validate:"gte=1"`
	MaxWorkers         int `mapstructure:"max_workers"          validate:"gtefield=MinWorkers"`
	QueueSize          int `mapstructure:"queue_size"           validate:"gte=1"`
	IdleTimeoutSeconds int `mapstructure:"idle_timeout_seconds" validate:"gt=0"`
}
