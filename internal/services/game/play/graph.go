package play

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

// Entity names carried by NOT_FOUND errors.
const (
	EntityStory      = "Story"
	EntityFirstPage  = "FirstPage"
	EntityPage       = "Page"
	EntityActiveGame = "ActiveGame"
	EntityOption     = "Option"
	EntityCharacter  = "Character"
)

// Graph is the read model over story content. It turns storage misses into
// NOT_FOUND errors naming the missing entity.
type Graph struct {
	reader storage.NarrativeReader
}

// NewGraph wraps a narrative reader.
func NewGraph(reader storage.NarrativeReader) *Graph {
	return &Graph{reader: reader}
}

// Story returns story metadata.
func (g *Graph) Story(ctx context.Context, storyID string) (narrative.Story, error) {
	story, err := g.reader.GetStory(ctx, storyID)
	if err != nil {
		return narrative.Story{}, notFoundAs(err, EntityStory, storyID)
	}
	return story, nil
}

// FirstPage returns page 1 of a story.
func (g *Graph) FirstPage(ctx context.Context, storyID string) (narrative.Page, error) {
	if _, err := g.Story(ctx, storyID); err != nil {
		return narrative.Page{}, err
	}
	page, err := g.reader.GetPageByNumber(ctx, storyID, 1)
	if err != nil {
		return narrative.Page{}, notFoundAs(err, EntityFirstPage, storyID)
	}
	return page, nil
}

// PageAt returns page number of a story.
func (g *Graph) PageAt(ctx context.Context, storyID string, number int) (narrative.Page, error) {
	page, err := g.reader.GetPageByNumber(ctx, storyID, number)
	if err != nil {
		return narrative.Page{}, notFoundAs(err, EntityPage, fmt.Sprintf("%s#%d", storyID, number))
	}
	return page, nil
}

// Page returns a page by id.
func (g *Graph) Page(ctx context.Context, pageID string) (narrative.Page, error) {
	page, err := g.reader.GetPage(ctx, pageID)
	if err != nil {
		return narrative.Page{}, notFoundAs(err, EntityPage, pageID)
	}
	return page, nil
}

// PageCount returns how many pages a story has.
func (g *Graph) PageCount(ctx context.Context, storyID string) (int, error) {
	return g.reader.CountPages(ctx, storyID)
}

// HasPage reports whether a story has page number.
func (g *Graph) HasPage(ctx context.Context, storyID string, number int) (bool, error) {
	if number < 1 {
		return false, nil
	}
	_, err := g.reader.GetPageByNumber(ctx, storyID, number)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Option returns an option by id.
func (g *Graph) Option(ctx context.Context, optionID string) (narrative.Option, error) {
	option, err := g.reader.GetOption(ctx, optionID)
	if err != nil {
		return narrative.Option{}, notFoundAs(err, EntityOption, optionID)
	}
	return option, nil
}

// notFoundAs maps storage.ErrNotFound to a NOT_FOUND error for entity and
// passes every other error through.
func notFoundAs(err error, entity, key string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound(entity, key)
	}
	return err
}
