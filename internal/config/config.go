package config

import (
	"time"
	_ "time/tzdata" // configured time zones must resolve on minimal images
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Study    StudyConfig    `mapstructure:"study" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
// Tokens are issued elsewhere; the API only verifies them.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// StudyConfig tunes scheduling, sharing and statistics behaviour.
type StudyConfig struct {
	// TimeZone sets calendar-day boundaries for activity buckets and streaks.
	TimeZone string `mapstructure:"time_zone" validate:"required,timezone"`

	ActivityWindowDays   int           `mapstructure:"activity_window_days" validate:"gte=1,lte=366"`
	StatsCacheTTL        time.Duration `mapstructure:"stats_cache_ttl" validate:"gte=0"`
	StatsCacheMaxEntries int64         `mapstructure:"stats_cache_max_entries" validate:"gte=1"`

	InvitationCodeAttempts int           `mapstructure:"invitation_code_attempts" validate:"gte=1,lte=100"`
	InvitationTTL          time.Duration `mapstructure:"invitation_ttl" validate:"gt=0"`
}

// Location resolves TimeZone. Validation guarantees it loads.
func (s StudyConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
