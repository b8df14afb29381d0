package seed

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(flag.NewFlagSet("seed", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "data/game.db" || cfg.Users != "demo-user" || cfg.StoriesDir != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigFlags(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-users", " a, b ,, c ", "-seed", "9", "-v"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	seedCfg := cfg.seedConfig()
	if !reflect.DeepEqual(seedCfg.Users, []string{"a", "b", "c"}) {
		t.Fatalf("users = %v", seedCfg.Users)
	}
	if seedCfg.Seed != 9 || !seedCfg.Verbose {
		t.Fatalf("seed cfg = %+v", seedCfg)
	}
}

func TestRunSeedsDatabase(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "game.db"), Users: "rider"}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "for rider") {
		t.Fatalf("output = %q", out.String())
	}
}
