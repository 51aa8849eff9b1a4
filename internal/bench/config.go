package bench

import (
	"fmt"
	"time"
)

// DefaultDuration is substituted when a duration string does not parse.
// The substitution is deliberate leniency inherited from the tool's origins:
// a typo in the duration should degrade to a usable run, not kill it. It is
// a fixed constant so malformed input always behaves the same way.
const DefaultDuration = 10 * time.Second

// Config describes one benchmark run against one endpoint. It is immutable
// for the duration of the run.
type Config struct {
	// Duration is the wall-clock measurement budget as a compact duration
	// string ("10s", "1m", "1h"). Unparseable values fall back to
	// DefaultDuration.
	Duration string `json:"duration" yaml:"duration"`

	// Concurrency is the number of simultaneous workers. Must be >= 1.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// WarmupRequests is the number of sequential priming calls issued
	// before measurement. They are excluded from every reported statistic.
	WarmupRequests int `json:"warmupRequests" yaml:"warmupRequests"`

	// HTTPTimeoutSeconds bounds each individual request.
	HTTPTimeoutSeconds int `json:"httpTimeoutSeconds" yaml:"httpTimeoutSeconds"`
}

// ParseDuration parses a compact duration string, falling back to
// DefaultDuration when the string does not parse. Bare integers are treated
// as seconds.
func ParseDuration(s string) time.Duration {
	if s == "" {
		return DefaultDuration
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	var seconds int
	if n, err := fmt.Sscanf(s, "%d", &seconds); err == nil && n == 1 {
		return time.Duration(seconds) * time.Second
	}

	return DefaultDuration
}

// DurationValue returns the parsed measurement window.
func (c Config) DurationValue() time.Duration {
	return ParseDuration(c.Duration)
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Validate checks the parts of the config that must fail fast, before any
// warmup traffic is sent.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return &ValidationError{Field: "concurrency", Message: "concurrency must be >= 1"}
	}
	if c.WarmupRequests < 0 {
		return &ValidationError{Field: "warmupRequests", Message: "warmupRequests must be >= 0"}
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}
