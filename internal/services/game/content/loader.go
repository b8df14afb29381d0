package content

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/nightbus/nightbus/internal/services/game/storage"
)

//go:embed samples/*.yaml
var samples embed.FS

// Samples returns the bundled demo stories.
func Samples() ([]Story, error) {
	return LoadFS(samples, "samples")
}

// LoadFS parses every .yaml and .yml file directly under dir, in name order.
func LoadFS(fsys fs.FS, dir string) ([]Story, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read story dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(entry.Name())) {
		case ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	stories := make([]Story, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read story %s: %w", name, err)
		}
		story, err := Parse(name, raw)
		if err != nil {
			return nil, err
		}
		if other, ok := seen[story.Story.ID]; ok {
			return nil, invalidDocument(name, "validate", fmt.Errorf("story id %s already defined in %s", story.Story.ID, other))
		}
		seen[story.Story.ID] = name
		stories = append(stories, story)
	}
	return stories, nil
}

// Import writes stories through writer, replacing any stored story with the same id.
func Import(ctx context.Context, writer storage.StoryWriter, stories []Story) error {
	if writer == nil {
		return fmt.Errorf("story writer is required")
	}
	for _, story := range stories {
		if err := writer.PutStory(ctx, story.Story, story.Pages); err != nil {
			return fmt.Errorf("put story %s: %w", story.Story.ID, err)
		}
	}
	return nil
}
