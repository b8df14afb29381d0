// Package main runs the MCP bridge on stdio.
package main

import (
	"context"
	"flag"
	"fmt"

	mcpcmd "github.com/nightbus/nightbus/internal/cmd/mcp"
	entrypoint "github.com/nightbus/nightbus/internal/platform/cmd"
)

func main() {
	entrypoint.Main(entrypoint.ServiceMCP, func(ctx context.Context, args []string) error {
		cfg, err := mcpcmd.ParseConfig(flag.CommandLine, args)
		if err != nil {
			return fmt.Errorf("parse flags: %w", err)
		}
		return mcpcmd.Run(ctx, cfg)
	})
}
