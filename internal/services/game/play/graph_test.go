package play

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

type fakeNarrativeReader struct {
	stories map[string]narrative.Story
	pages   map[string]narrative.Page
	options map[string]narrative.Option
	err     error
}

func (r *fakeNarrativeReader) GetStory(_ context.Context, storyID string) (narrative.Story, error) {
	if r.err != nil {
		return narrative.Story{}, r.err
	}
	story, ok := r.stories[storyID]
	if !ok {
		return narrative.Story{}, storage.ErrNotFound
	}
	return story, nil
}

func (r *fakeNarrativeReader) GetPageByNumber(_ context.Context, storyID string, number int) (narrative.Page, error) {
	if r.err != nil {
		return narrative.Page{}, r.err
	}
	for _, page := range r.pages {
		if page.StoryID == storyID && page.Number == number {
			return page, nil
		}
	}
	return narrative.Page{}, storage.ErrNotFound
}

func (r *fakeNarrativeReader) GetPage(_ context.Context, pageID string) (narrative.Page, error) {
	page, ok := r.pages[pageID]
	if !ok {
		return narrative.Page{}, storage.ErrNotFound
	}
	return page, nil
}

func (r *fakeNarrativeReader) GetOption(_ context.Context, optionID string) (narrative.Option, error) {
	option, ok := r.options[optionID]
	if !ok {
		return narrative.Option{}, storage.ErrNotFound
	}
	return option, nil
}

func (r *fakeNarrativeReader) CountPages(_ context.Context, storyID string) (int, error) {
	count := 0
	for _, page := range r.pages {
		if page.StoryID == storyID {
			count++
		}
	}
	return count, nil
}

func TestGraphFirstPage(t *testing.T) {
	reader := &fakeNarrativeReader{
		stories: map[string]narrative.Story{
			"empty": {ID: "empty"},
			"full":  {ID: "full"},
		},
		pages: map[string]narrative.Page{
			"full-1": {ID: "full-1", StoryID: "full", Number: 1},
			"full-2": {ID: "full-2", StoryID: "full", Number: 2},
		},
	}
	graph := NewGraph(reader)
	ctx := context.Background()

	page, err := graph.FirstPage(ctx, "full")
	if err != nil || page.ID != "full-1" {
		t.Fatalf("first page = %+v, %v", page, err)
	}
	if _, err := graph.FirstPage(ctx, "empty"); !apperrors.IsNotFound(err, EntityFirstPage) {
		t.Fatalf("empty story error = %v", err)
	}
	if _, err := graph.FirstPage(ctx, "missing"); !apperrors.IsNotFound(err, EntityStory) {
		t.Fatalf("missing story error = %v", err)
	}
}

func TestGraphHasPage(t *testing.T) {
	reader := &fakeNarrativeReader{
		pages: map[string]narrative.Page{
			"s-1": {ID: "s-1", StoryID: "s", Number: 1},
			"s-2": {ID: "s-2", StoryID: "s", Number: 2},
		},
	}
	graph := NewGraph(reader)
	ctx := context.Background()

	tests := []struct {
		number int
		want   bool
	}{
		{number: 0, want: false},
		{number: 1, want: true},
		{number: 2, want: true},
		{number: 3, want: false},
	}
	for _, tt := range tests {
		got, err := graph.HasPage(ctx, "s", tt.number)
		if err != nil {
			t.Fatalf("has page %d: %v", tt.number, err)
		}
		if got != tt.want {
			t.Fatalf("has page %d = %v, want %v", tt.number, got, tt.want)
		}
	}

	count, err := graph.PageCount(ctx, "s")
	if err != nil || count != 2 {
		t.Fatalf("page count = %d, %v", count, err)
	}
}

func TestGraphPassesThroughStoreErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	graph := NewGraph(&fakeNarrativeReader{err: boom})
	if _, err := graph.HasPage(context.Background(), "s", 1); !errors.Is(err, boom) {
		t.Fatalf("has page error = %v", err)
	}
	if _, err := graph.Story(context.Background(), "s"); !errors.Is(err, boom) {
		t.Fatalf("story error = %v", err)
	}
}

func TestGraphOptionAndPageNotFound(t *testing.T) {
	graph := NewGraph(&fakeNarrativeReader{})
	ctx := context.Background()
	if _, err := graph.Option(ctx, "o"); !apperrors.IsNotFound(err, EntityOption) {
		t.Fatalf("option error = %v", err)
	}
	if _, err := graph.Page(ctx, "p"); !apperrors.IsNotFound(err, EntityPage) {
		t.Fatalf("page error = %v", err)
	}
	if _, err := graph.PageAt(ctx, "s", 4); !apperrors.IsNotFound(err, EntityPage) {
		t.Fatalf("page at error = %v", err)
	}
}
