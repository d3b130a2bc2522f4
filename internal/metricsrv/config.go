// Package metricsrv implements the export surface described in spec.md
// §4.E: a loopback JSON metrics endpoint, an optional websocket push
// stream, and a self-observability admin sub-server, all driven off a
// shared *stats.Registry.
package metricsrv

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// DefaultPort is the metrics server's fallback port when neither an
// explicit Config value nor the environment variable override is set.
const DefaultPort = 6770

// Config holds the environment-derived settings the library reads when it
// starts the metrics/admin servers; the TUI console takes its port and
// poll interval from its own command-line flags instead. Fields are tagged for
// github.com/caarlos0/env, the same declarative env-struct idiom used
// throughout dmitrymomot-foundation's services.
type Config struct {
	MetricsPort  uint16        `env:"CHANCONSOLE_METRICS_PORT" envDefault:"6770"`
	AdminPort    uint16        `env:"CHANCONSOLE_ADMIN_PORT" envDefault:"0"`
	PollInterval time.Duration `env:"CHANCONSOLE_POLL_INTERVAL" envDefault:"300ms"`
	EnableStream bool          `env:"CHANCONSOLE_ENABLE_STREAM" envDefault:"true"`
}

// LoadConfig parses Config from the process environment. AdminPort of 0
// means "metrics port + 1", resolved by the caller once MetricsPort is
// final (an explicit override may still come after LoadConfig returns).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "chanconsole: parse metrics config from environment")
	}
	return cfg, nil
}

// ResolvedAdminPort returns AdminPort if explicitly set, else
// MetricsPort+1.
func (c Config) ResolvedAdminPort() uint16 {
	if c.AdminPort != 0 {
		return c.AdminPort
	}
	return c.MetricsPort + 1
}
