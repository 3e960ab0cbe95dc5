package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take precedence
// over file values; both take precedence over defaults. Returns a validated
// Config or an error describing what is missing or out of range.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("NOVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is a real problem.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every knob. The analysis
// defaults are the ceilings the production CRM runs with.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Registered empty so AutomaticEnv can see NOVA_AUTH_JWT_SECRET;
	// validation rejects the empty default.
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")

	v.SetDefault("analysis.max_concurrent_sales", 10)
	v.SetDefault("analysis.max_concurrent_document", 10)
	v.SetDefault("analysis.max_concurrent_voucher", 5)
	v.SetDefault("analysis.store_max_entries", 1000)
	v.SetDefault("analysis.result_max_bytes", 500*1024)
	v.SetDefault("analysis.reap_interval", 30*time.Minute)
	v.SetDefault("analysis.retention_window", 30*time.Minute)
	v.SetDefault("analysis.max_summary_chars", 5000)
	v.SetDefault("analysis.max_field_chars", 500)
	v.SetDefault("analysis.max_filename_chars", 200)
	v.SetDefault("analysis.chat_timeout", 2*time.Minute)
}
