package config

// LoggingConfig holds logging configuration for internal/infrastructure/logging.
type LoggingConfig struct {
	// Level: debug, info, warn, error.
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Format: json or text.
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}
