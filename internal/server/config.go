package server

import "time"

// Config holds server configuration.
type Config struct {
	Host string
	Port int

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Heartbeat is the SSE keep-alive interval.
	Heartbeat time.Duration

	// CacheTTL bounds read-cache staleness between mutations.
	CacheTTL time.Duration

	// PrefetchCommand overrides the snapshot regeneration command.
	PrefetchCommand string

	// HTTP timeouts. WriteTimeout must stay zero: the event stream is
	// a long-lived response.
	ReadTimeout time.Duration
	IdleTimeout time.Duration

	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		CORSEnabled:    true,
		Heartbeat:      30 * time.Second,
		CacheTTL:       time.Minute,
		ReadTimeout:    10 * time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}
