package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nightbus/nightbus/internal/services/game/domain/character"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

const characterColumns = `id, user_id, name, health, sanity, deleted_at, created_at, updated_at`

// PutCharacter inserts or replaces a character.
func (s *Store) PutCharacter(ctx context.Context, c character.Character) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("character id is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO characters (`+characterColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    user_id = excluded.user_id,
    name = excluded.name,
    health = excluded.health,
    sanity = excluded.sanity,
    deleted_at = excluded.deleted_at,
    updated_at = excluded.updated_at`,
		c.ID,
		c.UserID,
		c.Name,
		c.Health,
		c.Sanity,
		toNullMillis(c.DeletedAt),
		toMillis(c.CreatedAt),
		toMillis(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put character %s: %w", c.ID, err)
	}
	return nil
}

// GetCharacter returns a character by id.
func (s *Store) GetCharacter(ctx context.Context, characterID string) (character.Character, error) {
	if err := s.ready(ctx); err != nil {
		return character.Character{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = ?`, characterID)
	c, err := scanCharacter(row)
	if err != nil {
		return character.Character{}, fmt.Errorf("get character %s: %w", characterID, err)
	}
	return c, nil
}

// GetAliveCharacterByUser returns the user's character that is not marked dead.
func (s *Store) GetAliveCharacterByUser(ctx context.Context, userID string) (character.Character, error) {
	if err := s.ready(ctx); err != nil {
		return character.Character{}, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT `+characterColumns+`
FROM characters
WHERE user_id = ? AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1`, userID)
	c, err := scanCharacter(row)
	if err != nil {
		return character.Character{}, fmt.Errorf("get alive character for user %s: %w", userID, err)
	}
	return c, nil
}

func scanCharacter(row *sql.Row) (character.Character, error) {
	var (
		c         character.Character
		deletedAt sql.NullInt64
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Health, &c.Sanity, &deletedAt, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return character.Character{}, storage.ErrNotFound
		}
		return character.Character{}, err
	}
	c.DeletedAt = fromNullMillis(deletedAt)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}
