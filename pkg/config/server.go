package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// DefaultServerConfig returns the default server configuration. These are
// sensible defaults for local development and can be overridden via flags,
// environment variables, or config files.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr: "127.0.0.1",
		Port: 8080,
		CORSOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		MetricsEnabled: true,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

// BindServerFlags binds server-specific flags to the provided FlagSet.
// Flags are namespaced under 'server.' so posflag maps them onto the same
// koanf keys the file and env sources use.
func BindServerFlags(flags *pflag.FlagSet) {
	defaults := DefaultServerConfig()

	flags.String("server.addr", defaults.Addr, "Server listen address (use 0.0.0.0 for all interfaces)")
	flags.Int("server.port", defaults.Port, "Server listen port")
	flags.StringSlice("server.cors_origins", defaults.CORSOrigins, "Allowed CORS origins")
	flags.Bool("server.metrics_enabled", defaults.MetricsEnabled, "Expose Prometheus metrics on /metrics")
	flags.Duration("server.read_timeout", defaults.ReadTimeout, "HTTP read timeout")
	flags.Duration("server.write_timeout", defaults.WriteTimeout, "HTTP write timeout")
}

// Validate checks the server configuration for obvious misconfiguration.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Port)
	}
	return nil
}
