package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	JWTTTL      time.Duration `mapstructure:"jwt_ttl" yaml:"jwt_ttl"`

	// EnforceAdminCheck requires that approve/reject calls come from the
	// room's stored admin. Disable only for strict compatibility with
	// clients that predate the check.
	EnforceAdminCheck bool `mapstructure:"enforce_admin_check" yaml:"enforce_admin_check"`

	// MessageRateLimit caps inbound socket messages per connection per
	// minute. Zero disables the limit.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "meetpoint.db",
		LogLevel:          "info",
		JWTSecret:         "change-me",
		JWTIssuer:         "meetpoint",
		JWTAudience:       "meetpoint-clients",
		JWTTTL:            24 * time.Hour,
		EnforceAdminCheck: true,
		MessageRateLimit:  120,
	}
}
