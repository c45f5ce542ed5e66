// Package config loads and validates application configuration from
// environment variables and optional config files.
package config

// Config holds all application configuration, organized into logical groups.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Practice PracticeConfig `mapstructure:"practice" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"              validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes"  validate:"required,gt=0"`
	RefreshLifetimeHours int    `mapstructure:"refresh_lifetime_hours"  validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"             validate:"omitempty,gte=4,lte=31"`
}

// PracticeConfig contains practice-engine settings.
type PracticeConfig struct {
	// DefaultQuestionCount is the session size used when the caller does not
	// request one.
	DefaultQuestionCount int `mapstructure:"default_question_count" validate:"required,gt=0,lte=200"`

	// MaxQuestionCount caps the size of any single session.
	MaxQuestionCount int `mapstructure:"max_question_count" validate:"required,gt=0,lte=500"`

	// IdempotencyTTLMinutes is how long an idempotency claim shields an
	// action from re-execution before the key may be reclaimed.
	IdempotencyTTLMinutes int `mapstructure:"idempotency_ttl_minutes" validate:"required,gt=0"`
}
