package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/nightbus/nightbus/internal/platform/id"
	"github.com/nightbus/nightbus/internal/services/game/content"
	"github.com/nightbus/nightbus/internal/services/game/domain/character"
	"github.com/nightbus/nightbus/internal/services/game/storage"
	"github.com/nightbus/nightbus/internal/services/game/storage/sqlite"
)

// Config holds seed configuration.
type Config struct {
	// DBPath is the game SQLite database to fill.
	DBPath string
	// StoriesDir holds YAML story documents. Empty imports the bundled samples.
	StoriesDir string
	// Users receive a demo character unless they already have an alive one.
	Users []string
	// Seed makes name selection reproducible; 0 picks a random seed.
	Seed    int64
	Verbose bool
}

// Result summarizes one seed run.
type Result struct {
	Stories           []string
	CreatedCharacters []character.Character
	KeptCharacters    []character.Character
}

// store is what seeding needs from the game storage.
type store interface {
	storage.StoryWriter
	storage.CharacterStore
}

// Seeder writes demo content into a store.
type Seeder struct {
	store store
	names *nameRegistry
	clock func() time.Time
	newID func() (string, error)
}

// NewSeeder builds a Seeder. seed 0 selects a random seed.
func NewSeeder(s store, seed int64) *Seeder {
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(uint64(seed), uint64(seed))
	}
	return &Seeder{
		store: s,
		names: newNameRegistry(rand.New(src)),
		clock: time.Now,
		newID: id.NewID,
	}
}

// Run opens cfg.DBPath, seeds it, and prints a summary to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("db path is required")
	}
	stories, err := loadStories(cfg.StoriesDir)
	if err != nil {
		return err
	}

	gameStore, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open game store: %w", err)
	}
	defer func() {
		_ = gameStore.Close()
	}()

	result, err := NewSeeder(gameStore, cfg.Seed).Seed(ctx, stories, cfg.Users)
	if err != nil {
		return err
	}
	printResult(out, result, cfg.Verbose)
	return nil
}

func loadStories(dir string) ([]content.Story, error) {
	if strings.TrimSpace(dir) == "" {
		return content.Samples()
	}
	return content.LoadFS(os.DirFS(dir), ".")
}

// Seed imports stories and ensures every user has an alive character.
func (s *Seeder) Seed(ctx context.Context, stories []content.Story, users []string) (Result, error) {
	var result Result
	if err := content.Import(ctx, s.store, stories); err != nil {
		return Result{}, err
	}
	for _, story := range stories {
		result.Stories = append(result.Stories, story.Story.ID)
	}

	for _, userID := range users {
		userID = strings.TrimSpace(userID)
		if userID == "" {
			continue
		}
		existing, err := s.store.GetAliveCharacterByUser(ctx, userID)
		if err == nil {
			result.KeptCharacters = append(result.KeptCharacters, existing)
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return Result{}, fmt.Errorf("look up character for %s: %w", userID, err)
		}
		created, err := s.createCharacter(ctx, userID)
		if err != nil {
			return Result{}, err
		}
		result.CreatedCharacters = append(result.CreatedCharacters, created)
	}
	return result, nil
}

func (s *Seeder) createCharacter(ctx context.Context, userID string) (character.Character, error) {
	characterID, err := s.newID()
	if err != nil {
		return character.Character{}, err
	}
	now := s.clock().UTC()
	c := character.Character{
		ID:        characterID,
		UserID:    userID,
		Name:      s.names.next(),
		Health:    character.MaxStat,
		Sanity:    character.MaxStat,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PutCharacter(ctx, c); err != nil {
		return character.Character{}, fmt.Errorf("put character for %s: %w", userID, err)
	}
	return c, nil
}

func printResult(out io.Writer, result Result, verbose bool) {
	fmt.Fprintf(out, "imported %d stories\n", len(result.Stories))
	if verbose {
		for _, storyID := range result.Stories {
			fmt.Fprintf(out, "  story %s\n", storyID)
		}
	}
	for _, c := range result.CreatedCharacters {
		fmt.Fprintf(out, "created character %s (%s) for %s\n", c.ID, c.Name, c.UserID)
	}
	for _, c := range result.KeptCharacters {
		fmt.Fprintf(out, "kept character %s (%s) for %s\n", c.ID, c.Name, c.UserID)
	}
}
