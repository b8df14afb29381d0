// Package main runs the game gRPC service.
package main

import (
	"context"
	"flag"
	"fmt"

	gamecmd "github.com/nightbus/nightbus/internal/cmd/game"
	entrypoint "github.com/nightbus/nightbus/internal/platform/cmd"
)

func main() {
	entrypoint.Main(entrypoint.ServiceGame, func(ctx context.Context, args []string) error {
		cfg, err := gamecmd.ParseConfig(flag.CommandLine, args)
		if err != nil {
			return fmt.Errorf("parse flags: %w", err)
		}
		return gamecmd.Run(ctx, cfg)
	})
}
