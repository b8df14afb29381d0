package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	entrypoint "github.com/nightbus/nightbus/internal/platform/cmd"
	platformgrpc "github.com/nightbus/nightbus/internal/platform/grpc"
	"github.com/nightbus/nightbus/internal/platform/timeouts"
	"github.com/nightbus/nightbus/internal/services/game/api/grpc/auth"
	gamegrpc "github.com/nightbus/nightbus/internal/services/game/api/grpc/game"
	grpcmeta "github.com/nightbus/nightbus/internal/services/game/api/grpc/metadata"
	"github.com/nightbus/nightbus/internal/services/game/play"
	"github.com/nightbus/nightbus/internal/services/game/storage/sqlite"
	"google.golang.org/grpc/metadata"
)

// Config holds maintenance command configuration.
type Config struct {
	GRPCAddr   string        `env:"NIGHTBUS_GAME_GRPC_ADDR" envDefault:"localhost:8082"`
	DBPath     string        `env:"NIGHTBUS_GAME_DB_PATH"   envDefault:"data/game.db"`
	Timeout    time.Duration `env:"NIGHTBUS_MAINTENANCE_TIMEOUT" envDefault:"1m"`
	MaxAgeDays int           `env:"NIGHTBUS_MAINTENANCE_MAX_AGE_DAYS" envDefault:"7"`
	// PlayToken is an admin play token. Without it the command presents
	// development headers, which only a server in development mode accepts.
	PlayToken string `env:"NIGHTBUS_MAINTENANCE_PLAY_TOKEN"`
	UserID    string `env:"NIGHTBUS_MAINTENANCE_USER_ID" envDefault:"maintenance"`
	Direct    bool
	JSON      bool
}

// Report is the outcome of one cleanup run.
type Report struct {
	MaxAgeDays int    `json:"max_age_days"`
	Removed    int    `json:"removed"`
	Mode       string `json:"mode"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "game server address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "game sqlite database (used with -direct)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	fs.IntVar(&cfg.MaxAgeDays, "max-age-days", cfg.MaxAgeDays, "remove sessions created more than this many days ago")
	fs.BoolVar(&cfg.Direct, "direct", false, "open the database instead of calling the game server")
	fs.BoolVar(&cfg.JSON, "json", false, "output a JSON report")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.Maintenance
	}
	return cfg, nil
}

// Run executes one cleanup and writes the report to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if cfg.MaxAgeDays < 0 {
		return errors.New("-max-age-days must be >= 0")
	}

	var (
		report Report
		err    error
	)
	if cfg.Direct {
		report, err = cleanupDirect(ctx, cfg)
	} else {
		report, err = cleanupRemote(ctx, cfg)
	}
	if err != nil {
		return err
	}
	return writeReport(out, report, cfg.JSON)
}

func cleanupDirect(ctx context.Context, cfg Config) (Report, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return Report{}, errors.New("-db-path is required with -direct")
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return Report{}, fmt.Errorf("open game store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	sessions, err := play.NewSessionManager(play.Deps{Store: store})
	if err != nil {
		return Report{}, err
	}
	removed, err := sessions.CleanupStale(ctx, cfg.MaxAgeDays)
	if err != nil {
		return Report{}, fmt.Errorf("cleanup stale sessions: %w", err)
	}
	return Report{MaxAgeDays: cfg.MaxAgeDays, Removed: removed, Mode: "direct"}, nil
}

func cleanupRemote(ctx context.Context, cfg Config) (Report, error) {
	conn, err := platformgrpc.Connect(ctx, cfg.GRPCAddr, timeouts.GRPCDial, log.Printf)
	if err != nil {
		return Report{}, fmt.Errorf("connect to game server at %s: %w", cfg.GRPCAddr, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	callCtx, cancel := context.WithTimeout(adminContext(ctx, cfg), timeouts.GRPCRequest)
	defer cancel()
	removed, err := gamegrpc.NewClient(conn).CleanupStaleSessions(callCtx, cfg.MaxAgeDays)
	if err != nil {
		return Report{}, fmt.Errorf("cleanup stale sessions: %w", err)
	}
	return Report{MaxAgeDays: cfg.MaxAgeDays, Removed: removed, Mode: "grpc"}, nil
}

// adminContext attaches the admin identity the AdminService requires.
func adminContext(ctx context.Context, cfg Config) context.Context {
	if token := strings.TrimSpace(cfg.PlayToken); token != "" {
		return metadata.AppendToOutgoingContext(ctx, grpcmeta.AuthorizationHeader, "Bearer "+token)
	}
	return metadata.AppendToOutgoingContext(ctx,
		grpcmeta.UserIDHeader, cfg.UserID,
		grpcmeta.RoleHeader, auth.RoleAdmin,
	)
}

func writeReport(out io.Writer, report Report, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	_, err := fmt.Fprintf(out, "removed %d stale sessions older than %d days (%s)\n", report.Removed, report.MaxAgeDays, report.Mode)
	return err
}
