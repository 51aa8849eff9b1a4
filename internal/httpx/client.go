// Package httpx builds HTTP clients tuned for load generation.
package httpx

import (
	"crypto/tls"
	"net/http"
	"time"
)

// ClientConfig contains transport settings for benchmark clients.
type ClientConfig struct {
	// Timeout bounds each request end to end.
	Timeout time.Duration

	// MaxIdleConns controls the maximum number of idle connections.
	MaxIdleConns int

	// MaxIdleConnsPerHost controls the maximum idle connections per host.
	MaxIdleConnsPerHost int

	// MaxConnsPerHost limits the total connections per host.
	MaxConnsPerHost int

	// IdleConnTimeout is how long idle connections are kept alive.
	IdleConnTimeout time.Duration

	// InsecureSkipVerify skips TLS certificate verification.
	InsecureSkipVerify bool
}

// DefaultClientConfig returns sensible defaults for load testing. The pool
// has to be large enough that the transport never queues behind idle-conn
// limits at high worker counts.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             30 * time.Second,
		MaxIdleConns:        1000,
		MaxIdleConnsPerHost: 1000,
		MaxConnsPerHost:     1000,
		IdleConnTimeout:     90 * time.Second,
		InsecureSkipVerify:  true,
	}
}

// NewClient creates an HTTP client from the config.
func NewClient(cfg ClientConfig) *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = cfg.MaxIdleConns
	t.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	t.MaxConnsPerHost = cfg.MaxConnsPerHost
	t.IdleConnTimeout = cfg.IdleConnTimeout
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: t,
	}
}
