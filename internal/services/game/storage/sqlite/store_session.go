package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nightbus/nightbus/internal/services/game/domain/session"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

// GetSession returns the active session for a character.
func (s *Store) GetSession(ctx context.Context, characterID string) (session.Session, error) {
	if err := s.ready(ctx); err != nil {
		return session.Session{}, err
	}
	var (
		sess      session.Session
		createdAt int64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT character_id, story_id, page_id, created_at, updated_at
FROM sessions
WHERE character_id = ?`, characterID).Scan(&sess.CharacterID, &sess.StoryID, &sess.PageID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, storage.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("get session %s: %w", characterID, err)
	}
	sess.CreatedAt = fromMillis(createdAt)
	sess.UpdatedAt = fromMillis(updatedAt)
	return sess, nil
}

// CreateSession inserts a session. The character id is the primary key, so a
// second insert for one character fails with storage.ErrActiveGameExists.
func (s *Store) CreateSession(ctx context.Context, sess session.Session) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (character_id, story_id, page_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		sess.CharacterID, sess.StoryID, sess.PageID, toMillis(sess.CreatedAt), toMillis(sess.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrActiveGameExists
		}
		return fmt.Errorf("create session %s: %w", sess.CharacterID, err)
	}
	return nil
}

// AdvanceSession moves a character's session to pageID.
func (s *Store) AdvanceSession(ctx context.Context, characterID, pageID string, at time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
UPDATE sessions SET page_id = ?, updated_at = ?
WHERE character_id = ?`, pageID, toMillis(at), characterID)
	if err != nil {
		return fmt.Errorf("advance session %s: %w", characterID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("advance session %s: %w", characterID, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteSession removes a character's session and reports whether it existed.
func (s *Store) DeleteSession(ctx context.Context, characterID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE character_id = ?`, characterID)
	if err != nil {
		return false, fmt.Errorf("delete session %s: %w", characterID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session %s: %w", characterID, err)
	}
	return affected > 0, nil
}

// DeleteSessionsCreatedBefore removes every session created before cutoff.
func (s *Store) DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE created_at < ?`, toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete stale sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete stale sessions: %w", err)
	}
	return int(affected), nil
}
