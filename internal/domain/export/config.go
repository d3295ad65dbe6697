package export

import "time"

// Config holds export domain configuration.
type Config struct {
	// KeyPrefix is prepended to stored archive keys.
	KeyPrefix string

	// URLExpiry is the lifetime of presigned download URLs.
	URLExpiry time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		KeyPrefix: "exports/",
		URLExpiry: 24 * time.Hour,
	}
}
