package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AuthConfig contains the settings needed to validate caller identity.
// Session and refresh-token mechanics live in the main CRM service; this
// service only verifies the access tokens it is handed.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains the Gemini integration settings. An empty API key is
// legal: the agent then reports itself as not configured and every analysis
// task fails fast with an error record instead of attempting the call.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
}

// AnalysisConfig contains the tuning knobs for the background-analysis
// orchestrator. Defaults match the values the production CRM runs with.
type AnalysisConfig struct {
	// Per-family ceilings for concurrently running analyses.
	MaxConcurrentSales    int `mapstructure:"max_concurrent_sales"    validate:"required,gt=0"`
	MaxConcurrentDocument int `mapstructure:"max_concurrent_document" validate:"required,gt=0"`
	MaxConcurrentVoucher  int `mapstructure:"max_concurrent_voucher"  validate:"required,gt=0"`

	// StoreMaxEntries caps the result store; inserting past the cap evicts
	// the oldest entry.
	StoreMaxEntries int `mapstructure:"store_max_entries" validate:"required,gt=0"`

	// ResultMaxBytes caps the serialized size of a stored result.
	ResultMaxBytes int `mapstructure:"result_max_bytes" validate:"required,gt=200"`

	// ReapInterval is how often the stale-entry reaper sweeps; entries older
	// than RetentionWindow at sweep time are removed.
	ReapInterval    time.Duration `mapstructure:"reap_interval"    validate:"required"`
	RetentionWindow time.Duration `mapstructure:"retention_window" validate:"required"`

	// Prompt sanitization limits (characters, not bytes).
	MaxSummaryChars  int `mapstructure:"max_summary_chars"  validate:"required,gt=0"`
	MaxFieldChars    int `mapstructure:"max_field_chars"    validate:"required,gt=0"`
	MaxFileNameChars int `mapstructure:"max_filename_chars" validate:"required,gt=0"`

	// ChatTimeout bounds a single external analysis call so a hung call
	// cannot hold a concurrency slot forever.
	ChatTimeout time.Duration `mapstructure:"chat_timeout" validate:"required"`
}
