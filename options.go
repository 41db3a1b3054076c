package verdant

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/server"
	"github.com/verdantlabs/verdant/pkg/logging"
)

// Option is a function that configures a Verdant instance.
type Option func(*config) error

// config holds the assembled facade configuration.
type config struct {
	server   server.Config
	logger   *zerolog.Logger
	seedPath string
	seedData []byte
}

func defaultConfig() *config {
	return &config{
		server: server.DefaultConfig(),
		logger: logging.Default(),
	}
}

// WithServerConfig replaces the whole server configuration.
func WithServerConfig(cfg server.Config) Option {
	return func(c *config) error {
		c.server = cfg
		return nil
	}
}

// WithListenAddr configures the host and port the CLI serves on.
func WithListenAddr(host string, port int) Option {
	return func(c *config) error {
		c.server.Host = host
		c.server.Port = port
		return nil
	}
}

// WithLogger configures the logger used by all components.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithSeedFile loads initial content from a YAML file. Seeding does not
// fire change hooks or prefetch runs.
func WithSeedFile(path string) Option {
	return func(c *config) error {
		c.seedPath = path
		return nil
	}
}

// WithSeedData loads initial content from in-memory YAML.
func WithSeedData(raw []byte) Option {
	return func(c *config) error {
		c.seedData = raw
		return nil
	}
}

// WithPrefetchCommand overrides the shell command run after changes.
func WithPrefetchCommand(command string) Option {
	return func(c *config) error {
		c.server.PrefetchCommand = command
		return nil
	}
}

// WithHeartbeat configures the stream keep-alive interval.
func WithHeartbeat(interval time.Duration) Option {
	return func(c *config) error {
		c.server.Heartbeat = interval
		return nil
	}
}

// WithCacheTTL configures the read-cache lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) error {
		c.server.CacheTTL = ttl
		return nil
	}
}

// WithMetrics enables the Prometheus /metrics endpoint.
func WithMetrics(enabled bool) Option {
	return func(c *config) error {
		c.server.MetricsEnabled = enabled
		return nil
	}
}

// WithCORSOrigins restricts cross-origin access to the given origins.
// An empty list allows all origins.
func WithCORSOrigins(origins []string) Option {
	return func(c *config) error {
		c.server.CORSEnabled = true
		c.server.CORSOrigins = origins
		return nil
	}
}
