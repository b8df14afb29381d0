// Package main removes stale game sessions; meant to run from cron.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	maintenancecmd "github.com/nightbus/nightbus/internal/cmd/maintenance"
	entrypoint "github.com/nightbus/nightbus/internal/platform/cmd"
)

func main() {
	entrypoint.Main(entrypoint.ServiceMaintenance, func(ctx context.Context, args []string) error {
		cfg, err := maintenancecmd.ParseConfig(flag.CommandLine, args)
		if err != nil {
			return fmt.Errorf("parse flags: %w", err)
		}
		return maintenancecmd.Run(ctx, cfg, os.Stdout)
	})
}
