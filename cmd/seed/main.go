// Package main seeds the local game database with demo stories and characters.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	seedcmd "github.com/nightbus/nightbus/internal/cmd/seed"
	entrypoint "github.com/nightbus/nightbus/internal/platform/cmd"
)

func main() {
	entrypoint.Main(entrypoint.ServiceSeed, func(ctx context.Context, args []string) error {
		cfg, err := seedcmd.ParseConfig(flag.CommandLine, args)
		if err != nil {
			return fmt.Errorf("parse flags: %w", err)
		}
		return seedcmd.Run(ctx, cfg, os.Stdout)
	})
}
