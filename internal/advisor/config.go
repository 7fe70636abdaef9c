package advisor

import "time"

// Config holds advisor generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	TopFeatures int
}

// DefaultConfig returns the default advisor settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.4,
		Timeout:     45 * time.Second,
		TopFeatures: 5,
	}
}
