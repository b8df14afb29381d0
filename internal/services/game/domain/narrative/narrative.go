package narrative

import (
	"fmt"
	"strings"
)

// EffectKind names the stat an option changes.
type EffectKind string

const (
	// EffectHealth changes the character's health.
	EffectHealth EffectKind = "health"
	// EffectSanity changes the character's sanity.
	EffectSanity EffectKind = "sanity"
	// EffectNone leaves stats untouched.
	EffectNone EffectKind = "none"
)

// ParseEffectKind normalizes a stored kind. Unknown kinds read as EffectNone.
func ParseEffectKind(value string) EffectKind {
	switch EffectKind(strings.ToLower(strings.TrimSpace(value))) {
	case EffectHealth:
		return EffectHealth
	case EffectSanity:
		return EffectSanity
	default:
		return EffectNone
	}
}

// Story is an immutable narrative anchored to a location.
type Story struct {
	ID         string
	Title      string
	LocationID string
	PageCount  int
}

// Page is one numbered step of a story.
type Page struct {
	ID      string
	StoryID string
	Number  int
	Content string
	Options []Option
}

// Option is a choice offered on a page.
type Option struct {
	ID     string
	PageID string
	Label  string
	Effect Effect
}

// Effect is the stat change applied when an option is chosen.
type Effect struct {
	Kind   EffectKind
	Amount int
}

// NextNumber returns the page number that follows n.
func NextNumber(n int) int {
	return n + 1
}

// ValidateStory checks that a story and its pages form a contiguous 1..N run
// where every option belongs to the page that lists it.
func ValidateStory(story Story, pages []Page) error {
	if strings.TrimSpace(story.ID) == "" {
		return fmt.Errorf("story id is required")
	}
	if strings.TrimSpace(story.LocationID) == "" {
		return fmt.Errorf("story %s: location id is required", story.ID)
	}
	if len(pages) == 0 {
		return fmt.Errorf("story %s: at least one page is required", story.ID)
	}
	if story.PageCount != 0 && story.PageCount != len(pages) {
		return fmt.Errorf("story %s: page count %d does not match %d pages", story.ID, story.PageCount, len(pages))
	}
	for i, page := range pages {
		if page.Number != i+1 {
			return fmt.Errorf("story %s: page %d out of order, want %d", story.ID, page.Number, i+1)
		}
		if page.StoryID != "" && page.StoryID != story.ID {
			return fmt.Errorf("story %s: page %d belongs to story %s", story.ID, page.Number, page.StoryID)
		}
		for _, option := range page.Options {
			if option.PageID != "" && option.PageID != page.ID {
				return fmt.Errorf("story %s: option %s is not on page %d", story.ID, option.ID, page.Number)
			}
		}
	}
	return nil
}
