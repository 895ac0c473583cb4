package server

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sentra-ai/sentra/cmd/sentra/internal/format"
	"github.com/sentra-ai/sentra/pkg/appctx"
	"github.com/sentra-ai/sentra/pkg/logging"
	"github.com/sentra-ai/sentra/pkg/server/app"
)

// newStartServerCommand creates and returns the 'sentra server start' command.
//
// This command initializes the Sentra server runtime, which includes:
//   - HTTP API server with REST endpoints (/api/v1/ingest, /api/v1/analyze)
//   - Health and readiness endpoints (/healthz, /readyz)
//   - Prometheus metrics endpoint (/metrics, unless disabled)
//
// Startup connects to the vector store and the model backend and ensures
// both collections exist. An unreachable vector store is a fatal startup
// error. The server runs until interrupted (SIGINT/SIGTERM), then performs
// graceful shutdown.
//
// Configuration is loaded from:
//   - Flags (--server.addr, --server.port, ...)
//   - Environment variables (SENTRA_*)
//   - Config file (--config sentra.yaml)
//
// Example usage:
//
//	sentra server start
//	sentra server start --server.addr 0.0.0.0 --server.port 8080
func newStartServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the Sentra server",
		Long: `Start the Sentra server process.

The server hosts the ingest and analysis API in a single runtime. It runs
until interrupted (Ctrl+C) or killed, performing graceful shutdown to drain
in-flight requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			manager, ok := appctx.Config(cmd.Context())
			if !ok {
				err := fmt.Errorf("configuration manager unavailable on context")
				_ = formatter.PrintError(err)
				return err
			}
			cfg := manager.Get()

			if err := cfg.Server.Validate(); err != nil {
				wrapped := fmt.Errorf("invalid server configuration: %w", err)
				_ = formatter.PrintError(wrapped)
				return wrapped
			}

			logger := logging.NewLogger("server", zerolog.InfoLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps, err := app.Bootstrap(ctx, &cfg, manager, logger)
			if err != nil {
				wrapped := fmt.Errorf("bootstrap server: %w", err)
				_ = formatter.PrintError(wrapped)
				return wrapped
			}

			serverApp, err := app.New(ctx, cfg.Server, deps)
			if err != nil {
				wrapped := fmt.Errorf("initialize server: %w", err)
				_ = formatter.PrintError(wrapped)
				return wrapped
			}

			if err := serverApp.Run(ctx); err != nil {
				_ = formatter.PrintError(err)
				return err
			}
			return nil
		},
	}

	return cmd
}
