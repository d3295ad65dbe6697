package codegen

import "time"

// FallbackStrategy selects what happens when the vision model fails.
type FallbackStrategy string

const (
	// FallbackError surfaces the failure to the caller.
	FallbackError FallbackStrategy = "error"
	// FallbackMock answers with placeholder output flagged as a fallback.
	FallbackMock FallbackStrategy = "mock"
)

// Config holds codegen domain configuration.
type Config struct {
	MaxTokens        int
	ElementMaxTokens int
	Fallback         FallbackStrategy
	CacheTTL         time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxTokens:        4096,
		ElementMaxTokens: 2048,
		Fallback:         FallbackMock,
		CacheTTL:         time.Hour,
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.MaxTokens <= 0 {
		out.MaxTokens = def.MaxTokens
	}
	if out.ElementMaxTokens <= 0 {
		out.ElementMaxTokens = def.ElementMaxTokens
	}
	if out.Fallback != FallbackError && out.Fallback != FallbackMock {
		out.Fallback = def.Fallback
	}
	return &out
}
