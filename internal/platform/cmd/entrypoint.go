// Package cmd holds startup helpers shared by every nightbus command.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nightbus/nightbus/internal/platform/config"
	"github.com/nightbus/nightbus/internal/platform/otel"
)

// telemetryShutdown caps how long exporters get to flush on exit.
const telemetryShutdown = 5 * time.Second

// Service names, used as the OpenTelemetry service name and log prefix.
const (
	ServiceGame        = "game"
	ServiceMCP         = "mcp"
	ServiceMaintenance = "maintenance"
	ServiceSeed        = "seed"
)

// ParseConfig loads environment values and defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags. Flags override values ParseConfig
// loaded when they were registered with those values as defaults.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// LogPrefix returns the standard logger prefix for service, e.g. "[GAME] ".
func LogPrefix(service string) string {
	return "[" + strings.ToUpper(strings.TrimSpace(service)) + "] "
}

// Main runs a command process: it sets the log prefix, cancels the context
// on SIGINT or SIGTERM and exits with status 1 when run fails.
func Main(service string, run func(ctx context.Context, args []string) error) {
	log.SetPrefix(LogPrefix(service))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Execute(ctx, run, os.Args[1:])
	stop()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}

// Execute calls run with args. A run that fails only because ctx was
// canceled counts as a clean shutdown.
func Execute(ctx context.Context, run func(ctx context.Context, args []string) error, args []string) error {
	if run == nil {
		return errors.New("run function is required")
	}
	err := run(ctx, args)
	if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// RunWithTelemetry sets up tracing for service, calls run and flushes
// traces afterwards.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()
	return run(ctx)
}
