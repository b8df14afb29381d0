package play

import (
	"context"
	"strings"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/domain/character"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

// Actor is who asks for a character mutation: a user, or the engine itself.
type Actor struct {
	UserID string
	System bool
}

// UserActor is a request made on behalf of userID.
func UserActor(userID string) Actor {
	return Actor{UserID: userID}
}

// SystemActor is the engine acting on its own authority.
func SystemActor() Actor {
	return Actor{System: true}
}

func (a Actor) owns(c character.Character) bool {
	return a.System || (a.UserID != "" && a.UserID == c.UserID)
}

// CharacterState is the only writer of character stats and death.
type CharacterState struct {
	deps     Deps
	sessions *SessionManager
}

// NewCharacterState builds a CharacterState that terminates sessions through sessions.
func NewCharacterState(deps Deps, sessions *SessionManager) (*CharacterState, error) {
	deps, err := deps.withDefaults()
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		return nil, apperrors.New(apperrors.CodeUnknown, "play: session manager is required")
	}
	return &CharacterState{deps: deps, sessions: sessions}, nil
}

// Get returns a character by id.
func (s *CharacterState) Get(ctx context.Context, characterID string) (character.Character, error) {
	return loadCharacter(ctx, s.deps.Store, characterID)
}

// AliveForUser returns the user's living character.
func (s *CharacterState) AliveForUser(ctx context.Context, userID string) (character.Character, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return character.Character{}, invalidArgument("user id is required", "user_id")
	}
	c, err := s.deps.Store.GetAliveCharacterByUser(ctx, userID)
	if err != nil {
		return character.Character{}, notFoundAs(err, EntityCharacter, userID)
	}
	return c, nil
}

// Kill marks the character dead and ends its session. Killing an already dead
// character is a no-op. Only the owner or the system actor may kill.
func (s *CharacterState) Kill(ctx context.Context, actor Actor, characterID string) (c character.Character, err error) {
	ctx, span := startSpan(ctx, "CharacterState.Kill", characterID)
	defer func() { endSpan(span, err) }()

	unlock := s.deps.Locks.Lock(characterID)
	defer unlock()

	err = s.deps.Store.WithTx(ctx, func(tx storage.GameStore) error {
		current, err := loadCharacter(ctx, tx, characterID)
		if err != nil {
			return err
		}
		if !actor.owns(current) {
			return apperrors.WithMetadata(apperrors.CodeCharacterNotOwned, "character "+characterID+" is not owned by caller", map[string]string{
				apperrors.MetadataKey: characterID,
			})
		}
		c, err = s.kill(ctx, tx, current)
		return err
	})
	if err != nil {
		return character.Character{}, err
	}
	return c, nil
}

// apply persists the effect of option on c inside tx.
func (s *CharacterState) apply(ctx context.Context, tx storage.GameStore, c character.Character, effect narrative.Effect) (character.Character, character.Delta, error) {
	updated, delta := character.ApplyEffect(c, effect)
	if !delta.Changed() {
		return updated, delta, nil
	}
	updated.UpdatedAt = s.deps.now()
	if err := tx.PutCharacter(ctx, updated); err != nil {
		return character.Character{}, character.Delta{}, err
	}
	return updated, delta, nil
}

// kill marks c dead and terminates its session inside tx. The caller holds the
// character lock.
func (s *CharacterState) kill(ctx context.Context, tx storage.GameStore, c character.Character) (character.Character, error) {
	dead, changed := character.MarkDead(c, s.deps.now())
	if changed {
		if err := tx.PutCharacter(ctx, dead); err != nil {
			return character.Character{}, err
		}
	}
	if err := s.sessions.Terminate(ctx, tx, c.ID); err != nil {
		return character.Character{}, err
	}
	return dead, nil
}
