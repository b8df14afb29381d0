package seed

import (
	"bytes"
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nightbus/nightbus/internal/services/game/content"
	"github.com/nightbus/nightbus/internal/services/game/storage/sqlite"
)

func TestRunSeedsSamplesAndCharacters(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "game.db")
	var out bytes.Buffer
	cfg := Config{DBPath: dbPath, Users: []string{"user-1", " ", "user-2"}, Seed: 42, Verbose: true}
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "created character") || !strings.Contains(got, "for user-2") {
		t.Fatalf("output = %q", got)
	}

	// A second run keeps the existing characters.
	out.Reset()
	if err := Run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := out.String(); strings.Contains(got, "created character") || strings.Count(got, "kept character") != 2 {
		t.Fatalf("second output = %q", got)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()
	samples, err := content.Samples()
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	for _, story := range samples {
		ids, err := store.ListStoryIDsByLocation(ctx, story.Story.LocationID)
		if err != nil {
			t.Fatalf("list stories: %v", err)
		}
		if len(ids) == 0 {
			t.Fatalf("no stories at %s", story.Story.LocationID)
		}
	}
	c, err := store.GetAliveCharacterByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("alive character: %v", err)
	}
	if c.Health != 100 || c.Sanity != 100 || c.Name == "" {
		t.Fatalf("character = %+v", c)
	}
}

func TestRunFromStoriesDir(t *testing.T) {
	dir := t.TempDir()
	doc := "id: ferry\ntitle: Ferry\nlocation_id: pier\npages:\n  - content: hi\n    options:\n      - label: go\n"
	if err := os.WriteFile(filepath.Join(dir, "ferry.yaml"), []byte(doc), 0o600); err != nil {
		t.Fatalf("write story: %v", err)
	}
	var out bytes.Buffer
	if err := Run(context.Background(), Config{DBPath: filepath.Join(t.TempDir(), "game.db"), StoriesDir: dir}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "imported 1 stories\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestRunRejectsInvalidStories(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\n"), 0o600); err != nil {
		t.Fatalf("write story: %v", err)
	}
	if err := Run(context.Background(), Config{DBPath: filepath.Join(t.TempDir(), "game.db"), StoriesDir: dir}, nil); err == nil {
		t.Fatal("expected invalid story error")
	}
}

func TestRunRequiresDBPath(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNameRegistrySuffixesRepeats(t *testing.T) {
	registry := newNameRegistry(rand.New(rand.NewPCG(1, 2)))
	if got := registry.unique("Ada Vale"); got != "Ada Vale" {
		t.Fatalf("first = %q", got)
	}
	if got := registry.unique("Ada Vale"); got != "Ada Vale 2" {
		t.Fatalf("second = %q", got)
	}
	seen := map[string]bool{}
	for range 25 {
		name := registry.next()
		if seen[name] {
			t.Fatalf("duplicate name %q", name)
		}
		seen[name] = true
	}
}
