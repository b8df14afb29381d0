package play

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/domain/character"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/domain/session"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

// Snapshot is what a player sees: the story, the current page with its
// options, and the character's stats.
type Snapshot struct {
	Story     narrative.Story
	Page      narrative.Page
	Character character.Character
}

// State is the polling view of a character. Snapshot is only set when Active.
type State struct {
	Active   bool
	Snapshot Snapshot
}

// SessionManager owns the session lifecycle and guarantees at most one active
// session per character.
type SessionManager struct {
	deps Deps
}

// NewSessionManager builds a SessionManager.
func NewSessionManager(deps Deps) (*SessionManager, error) {
	deps, err := deps.withDefaults()
	if err != nil {
		return nil, err
	}
	return &SessionManager{deps: deps}, nil
}

// Start opens a session for characterID at page 1 of storyID.
func (m *SessionManager) Start(ctx context.Context, characterID, storyID string) (snap Snapshot, err error) {
	ctx, span := startSpan(ctx, "SessionManager.Start", characterID)
	defer func() { endSpan(span, err) }()

	characterID = strings.TrimSpace(characterID)
	storyID = strings.TrimSpace(storyID)
	if characterID == "" || storyID == "" {
		return Snapshot{}, invalidArgument("character_id and story_id are required", "story_id")
	}

	unlock := m.deps.Locks.Lock(characterID)
	defer unlock()

	err = m.deps.Store.WithTx(ctx, func(tx storage.GameStore) error {
		c, err := loadCharacter(ctx, tx, characterID)
		if err != nil {
			return err
		}
		if !character.IsAlive(c) {
			return characterDead(characterID)
		}

		if _, err := tx.GetSession(ctx, characterID); err == nil {
			return activeGameExists(characterID)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		graph := NewGraph(tx)
		story, err := graph.Story(ctx, storyID)
		if err != nil {
			return err
		}
		page, err := graph.FirstPage(ctx, storyID)
		if err != nil {
			return err
		}

		now := m.deps.now()
		if err := tx.CreateSession(ctx, session.Session{
			CharacterID: characterID,
			StoryID:     storyID,
			PageID:      page.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			if errors.Is(err, storage.ErrActiveGameExists) {
				return activeGameExists(characterID)
			}
			return err
		}
		snap = Snapshot{Story: story, Page: page, Character: c}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Resume returns the snapshot of the character's active session.
func (m *SessionManager) Resume(ctx context.Context, characterID string) (snap Snapshot, err error) {
	ctx, span := startSpan(ctx, "SessionManager.Resume", characterID)
	defer func() { endSpan(span, err) }()

	return loadSnapshot(ctx, m.deps.Store, characterID)
}

// CurrentState is Resume for polling: no active session is a State, not an error.
func (m *SessionManager) CurrentState(ctx context.Context, characterID string) (State, error) {
	snap, err := m.Resume(ctx, characterID)
	if err != nil {
		if apperrors.IsNotFound(err, EntityActiveGame) {
			return State{}, nil
		}
		return State{}, err
	}
	return State{Active: true, Snapshot: snap}, nil
}

// Quit ends the active session and returns the character unchanged.
func (m *SessionManager) Quit(ctx context.Context, characterID string) (c character.Character, err error) {
	ctx, span := startSpan(ctx, "SessionManager.Quit", characterID)
	defer func() { endSpan(span, err) }()

	unlock := m.deps.Locks.Lock(characterID)
	defer unlock()

	err = m.deps.Store.WithTx(ctx, func(tx storage.GameStore) error {
		deleted, err := tx.DeleteSession(ctx, characterID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.NotFound(EntityActiveGame, characterID)
		}
		c, err = loadCharacter(ctx, tx, characterID)
		return err
	})
	if err != nil {
		return character.Character{}, err
	}
	return c, nil
}

// Terminate deletes the character's session inside the caller's transaction.
// A missing session is not an error.
func (m *SessionManager) Terminate(ctx context.Context, tx storage.GameStore, characterID string) error {
	_, err := tx.DeleteSession(ctx, characterID)
	return err
}

// CleanupStale deletes sessions created more than maxAgeDays days ago and
// returns how many were removed.
func (m *SessionManager) CleanupStale(ctx context.Context, maxAgeDays int) (int, error) {
	if maxAgeDays < 0 {
		return 0, invalidArgument("max_age_days must not be negative", "max_age_days")
	}
	cutoff := session.StaleCutoff(m.deps.now(), maxAgeDays)
	return m.deps.Store.DeleteSessionsCreatedBefore(ctx, cutoff)
}

func loadSnapshot(ctx context.Context, store storage.GameStore, characterID string) (Snapshot, error) {
	sess, err := store.GetSession(ctx, characterID)
	if err != nil {
		return Snapshot{}, notFoundAs(err, EntityActiveGame, characterID)
	}
	c, err := loadCharacter(ctx, store, characterID)
	if err != nil {
		return Snapshot{}, err
	}
	graph := NewGraph(store)
	story, err := graph.Story(ctx, sess.StoryID)
	if err != nil {
		return Snapshot{}, err
	}
	page, err := graph.Page(ctx, sess.PageID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Story: story, Page: page, Character: c}, nil
}

func loadCharacter(ctx context.Context, store storage.CharacterStore, characterID string) (character.Character, error) {
	c, err := store.GetCharacter(ctx, characterID)
	if err != nil {
		return character.Character{}, notFoundAs(err, EntityCharacter, characterID)
	}
	return c, nil
}

func activeGameExists(characterID string) error {
	return apperrors.WithMetadata(apperrors.CodeActiveGameExists, "active game already in progress for "+characterID, map[string]string{
		apperrors.MetadataKey: characterID,
	})
}

func characterDead(characterID string) error {
	return apperrors.WithMetadata(apperrors.CodeCharacterDead, "character is dead: "+characterID, map[string]string{
		apperrors.MetadataKey: characterID,
	})
}

func invalidArgument(message, field string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, message, map[string]string{"Field": field})
}
