// Package appctx carries shared application state on context.Context.
// Today that is only the config manager: the root command loads it once and
// every subcommand reads it back instead of re-parsing config sources.
package appctx

import (
	"context"

	"github.com/sentra-ai/sentra/pkg/config"
)

// ctxKey is unexported so other packages cannot collide with our entries.
type ctxKey int

const configManagerKey ctxKey = iota

// WithConfig returns a context carrying the shared config manager.
func WithConfig(ctx context.Context, manager *config.Manager) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configManagerKey, manager)
}

// Config returns the config manager stored on ctx. The second return value
// is false when none was attached, including when a nil manager was stored.
func Config(ctx context.Context) (*config.Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	manager, ok := ctx.Value(configManagerKey).(*config.Manager)
	return manager, ok && manager != nil
}
