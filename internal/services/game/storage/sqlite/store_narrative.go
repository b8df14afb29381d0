package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

// GetStory returns story metadata.
func (s *Store) GetStory(ctx context.Context, storyID string) (narrative.Story, error) {
	if err := s.ready(ctx); err != nil {
		return narrative.Story{}, err
	}
	var story narrative.Story
	err := s.db.QueryRowContext(ctx, `
SELECT id, title, location_id, page_count
FROM stories
WHERE id = ?`, storyID).Scan(&story.ID, &story.Title, &story.LocationID, &story.PageCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return narrative.Story{}, storage.ErrNotFound
		}
		return narrative.Story{}, fmt.Errorf("get story %s: %w", storyID, err)
	}
	return story, nil
}

// GetPageByNumber returns page number of storyID with its options.
func (s *Store) GetPageByNumber(ctx context.Context, storyID string, number int) (narrative.Page, error) {
	if err := s.ready(ctx); err != nil {
		return narrative.Page{}, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, story_id, number, content
FROM pages
WHERE story_id = ? AND number = ?`, storyID, number)
	return s.loadPage(ctx, row, fmt.Sprintf("%s#%d", storyID, number))
}

// GetPage returns a page by id with its options.
func (s *Store) GetPage(ctx context.Context, pageID string) (narrative.Page, error) {
	if err := s.ready(ctx); err != nil {
		return narrative.Page{}, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, story_id, number, content
FROM pages
WHERE id = ?`, pageID)
	return s.loadPage(ctx, row, pageID)
}

func (s *Store) loadPage(ctx context.Context, row *sql.Row, key string) (narrative.Page, error) {
	var page narrative.Page
	if err := row.Scan(&page.ID, &page.StoryID, &page.Number, &page.Content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return narrative.Page{}, storage.ErrNotFound
		}
		return narrative.Page{}, fmt.Errorf("get page %s: %w", key, err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, page_id, label, effect_kind, effect_amount
FROM options
WHERE page_id = ?
ORDER BY position, id`, page.ID)
	if err != nil {
		return narrative.Page{}, fmt.Errorf("list options for page %s: %w", page.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		option, err := scanOption(rows)
		if err != nil {
			return narrative.Page{}, fmt.Errorf("scan option: %w", err)
		}
		page.Options = append(page.Options, option)
	}
	if err := rows.Err(); err != nil {
		return narrative.Page{}, fmt.Errorf("list options for page %s: %w", page.ID, err)
	}
	return page, nil
}

// GetOption returns an option by id.
func (s *Store) GetOption(ctx context.Context, optionID string) (narrative.Option, error) {
	if err := s.ready(ctx); err != nil {
		return narrative.Option{}, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, page_id, label, effect_kind, effect_amount
FROM options
WHERE id = ?`, optionID)
	option, err := scanOption(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return narrative.Option{}, storage.ErrNotFound
		}
		return narrative.Option{}, fmt.Errorf("get option %s: %w", optionID, err)
	}
	return option, nil
}

// CountPages returns how many pages storyID has.
func (s *Store) CountPages(ctx context.Context, storyID string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE story_id = ?`, storyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pages for story %s: %w", storyID, err)
	}
	return count, nil
}

// ListStoryIDsByLocation returns the ids of stories set at locationID.
func (s *Store) ListStoryIDsByLocation(ctx context.Context, locationID string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM stories WHERE location_id = ? ORDER BY id`, locationID)
	if err != nil {
		return nil, fmt.Errorf("list stories for location %s: %w", locationID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan story id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stories for location %s: %w", locationID, err)
	}
	return ids, nil
}

// PutStory replaces a story together with all its pages and options.
// Sessions playing the story are removed since their pages may be gone.
func (s *Store) PutStory(ctx context.Context, story narrative.Story, pages []narrative.Page) error {
	if strings.TrimSpace(story.ID) == "" {
		return fmt.Errorf("story id is required")
	}
	story.PageCount = len(pages)
	if err := narrative.ValidateStory(story, pages); err != nil {
		return err
	}

	return s.WithTx(ctx, func(tx storage.GameStore) error {
		txStore := tx.(*Store)
		if _, err := txStore.db.ExecContext(ctx, `DELETE FROM sessions WHERE story_id = ?`, story.ID); err != nil {
			return fmt.Errorf("delete sessions for story %s: %w", story.ID, err)
		}
		if _, err := txStore.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, story.ID); err != nil {
			return fmt.Errorf("delete story %s: %w", story.ID, err)
		}
		if _, err := txStore.db.ExecContext(ctx, `
INSERT INTO stories (id, title, location_id, page_count, created_at)
VALUES (?, ?, ?, ?, ?)`,
			story.ID, story.Title, story.LocationID, story.PageCount, toMillis(time.Now()),
		); err != nil {
			return fmt.Errorf("insert story %s: %w", story.ID, err)
		}

		for _, page := range pages {
			if _, err := txStore.db.ExecContext(ctx, `
INSERT INTO pages (id, story_id, number, content)
VALUES (?, ?, ?, ?)`,
				page.ID, story.ID, page.Number, page.Content,
			); err != nil {
				return fmt.Errorf("insert page %s: %w", page.ID, err)
			}
			for position, option := range page.Options {
				if _, err := txStore.db.ExecContext(ctx, `
INSERT INTO options (id, page_id, position, label, effect_kind, effect_amount)
VALUES (?, ?, ?, ?, ?, ?)`,
					option.ID, page.ID, position, option.Label, string(option.Effect.Kind), option.Effect.Amount,
				); err != nil {
					return fmt.Errorf("insert option %s: %w", option.ID, err)
				}
			}
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOption(row scanner) (narrative.Option, error) {
	var (
		option narrative.Option
		kind   string
	)
	if err := row.Scan(&option.ID, &option.PageID, &option.Label, &kind, &option.Effect.Amount); err != nil {
		return narrative.Option{}, err
	}
	option.Effect.Kind = narrative.ParseEffectKind(kind)
	return option, nil
}
