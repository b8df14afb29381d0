// Package game parses game command flags and starts the game server.
package game

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/nightbus/nightbus/internal/platform/cmd"
	"github.com/nightbus/nightbus/internal/services/game/api/grpc/auth"
	server "github.com/nightbus/nightbus/internal/services/game/app"
)

// Config holds game command configuration.
type Config struct {
	Port               int    `env:"NIGHTBUS_GAME_PORT"            envDefault:"8082"`
	Addr               string `env:"NIGHTBUS_GAME_ADDR"`
	DBPath             string `env:"NIGHTBUS_GAME_DB_PATH"         envDefault:"data/game.db"`
	AnalyticsQueueSize int    `env:"NIGHTBUS_ANALYTICS_QUEUE_SIZE" envDefault:"256"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The game SQLite database")
	fs.IntVar(&cfg.AnalyticsQueueSize, "analytics-queue-size", cfg.AnalyticsQueueSize, "Pending analytics events kept before new ones are dropped")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// listenAddr resolves the address the server binds.
func (c Config) listenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Run starts the game gRPC service.
func Run(ctx context.Context, cfg Config) error {
	playToken, ok, err := auth.LoadConfigFromEnv(time.Now)
	if err != nil {
		return err
	}
	serverCfg := server.Config{
		Addr:               cfg.listenAddr(),
		DBPath:             cfg.DBPath,
		AnalyticsQueueSize: cfg.AnalyticsQueueSize,
	}
	if ok {
		serverCfg.PlayToken = &playToken
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		return server.Run(ctx, serverCfg)
	})
}
