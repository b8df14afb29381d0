// Package maintenance wires the maintenance command to its tool package.
package maintenance

import (
	"context"
	"flag"
	"io"

	entrypoint "github.com/nightbus/nightbus/internal/platform/cmd"
	"github.com/nightbus/nightbus/internal/tools/maintenance"
)

// Config is the maintenance command configuration.
type Config = maintenance.Config

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return maintenance.ParseConfig(fs, args)
}

// Run executes one cleanup with telemetry, bounded by cfg.Timeout.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMaintenance, func(ctx context.Context) error {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		return maintenance.Run(ctx, cfg, out)
	})
}
