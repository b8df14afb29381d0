// Package seed parses seed command flags and fills the game database.
package seed

import (
	"context"
	"flag"
	"io"
	"strings"

	entrypoint "github.com/nightbus/nightbus/internal/platform/cmd"
	"github.com/nightbus/nightbus/internal/tools/seed"
)

// Config holds seed command configuration.
type Config struct {
	DBPath     string `env:"NIGHTBUS_GAME_DB_PATH"    envDefault:"data/game.db"`
	StoriesDir string `env:"NIGHTBUS_SEED_STORIES_DIR"`
	Users      string `env:"NIGHTBUS_SEED_USERS"      envDefault:"demo-user"`
	Seed       int64
	Verbose    bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "game sqlite database")
	fs.StringVar(&cfg.StoriesDir, "stories", cfg.StoriesDir, "directory of YAML story documents (default: bundled samples)")
	fs.StringVar(&cfg.Users, "users", cfg.Users, "comma-separated user ids that get a demo character")
	fs.Int64Var(&cfg.Seed, "seed", 0, "random seed for reproducible names (0 = random)")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) seedConfig() seed.Config {
	return seed.Config{
		DBPath:     c.DBPath,
		StoriesDir: c.StoriesDir,
		Users:      splitCSV(c.Users),
		Seed:       c.Seed,
		Verbose:    c.Verbose,
	}
}

// Run executes the seed command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return seed.Run(ctx, cfg.seedConfig(), out)
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
