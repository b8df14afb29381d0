// Package mcp parses MCP command flags and starts the stdio bridge.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/nightbus/nightbus/internal/platform/cmd"
	"github.com/nightbus/nightbus/internal/services/mcp/domain"
	"github.com/nightbus/nightbus/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	GRPCAddr  string `env:"NIGHTBUS_GAME_GRPC_ADDR"  envDefault:"localhost:8082"`
	PlayToken string `env:"NIGHTBUS_MCP_PLAY_TOKEN"`
	UserID    string `env:"NIGHTBUS_MCP_USER_ID"`
	Locale    string `env:"NIGHTBUS_MCP_LOCALE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.GRPCAddr, "addr", cfg.GRPCAddr, "game server address")
	fs.StringVar(&cfg.UserID, "user-id", cfg.UserID, "user id sent to a development game server")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for error messages (en-US or pt-BR)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) serviceConfig() service.Config {
	return service.Config{
		GRPCAddr: c.GRPCAddr,
		Identity: domain.Identity{
			PlayToken: c.PlayToken,
			UserID:    c.UserID,
			Locale:    c.Locale,
		},
	}
}

// Run starts the MCP bridge on stdio.
func Run(ctx context.Context, cfg Config) error {
	serviceCfg := cfg.serviceConfig()
	if err := serviceCfg.Identity.Validate(); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return service.Run(ctx, serviceCfg)
	})
}
