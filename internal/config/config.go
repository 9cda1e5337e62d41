// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL points at the standings database. Empty selects the
	// seeded in-memory store, which is useful for demos and tests.
	DatabaseURL string `koanf:"database_url"`

	// RefreshIntervalSeconds sets the scheduled cache rebuild cadence.
	RefreshIntervalSeconds int `koanf:"refresh_interval_seconds"`

	// RefreshTimeoutSeconds bounds the bulk standings read per rebuild.
	RefreshTimeoutSeconds int `koanf:"refresh_timeout_seconds"`

	// MaxPageLimit caps the limit parameter of ranking queries.
	MaxPageLimit int `koanf:"max_page_limit"`

	// MaxLevelTier is the highest level tier that gets its own scope.
	MaxLevelTier int `koanf:"max_level_tier"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9090",
		DatabaseURL:            "",
		RefreshIntervalSeconds: 300,
		RefreshTimeoutSeconds:  30,
		MaxPageLimit:           1000,
		MaxLevelTier:           10,
	}
}
