package play

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

// StorySelector picks the story a character plays at a location.
type StorySelector interface {
	Select(ctx context.Context, locationID string) (string, error)
}

// CatalogSelector picks uniformly among the catalog's stories for a location.
type CatalogSelector struct {
	catalog storage.StoryCatalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCatalogSelector builds a selector. A nil src uses a randomly seeded source.
func NewCatalogSelector(catalog storage.StoryCatalog, src rand.Source) *CatalogSelector {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &CatalogSelector{catalog: catalog, rng: rand.New(src)}
}

// Select returns one story id for locationID, or NOT_FOUND(Story) when the
// location has none.
func (s *CatalogSelector) Select(ctx context.Context, locationID string) (string, error) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return "", invalidArgument("location id is required", "location_id")
	}
	ids, err := s.catalog.ListStoryIDsByLocation(ctx, locationID)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", apperrors.NotFound(EntityStory, "location "+locationID)
	}

	s.mu.Lock()
	index := s.rng.IntN(len(ids))
	s.mu.Unlock()
	return ids[index], nil
}
