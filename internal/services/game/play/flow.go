package play

import (
	"context"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/domain/character"
)

// EnterResult is the outcome of entering the game at a location.
type EnterResult struct {
	Snapshot Snapshot
	// Resumed is set when an existing session was picked up.
	Resumed bool
}

// GameFlow is the entry point used by transports. It resolves the caller's
// character and routes to the engine components.
type GameFlow struct {
	sessions   *SessionManager
	characters *CharacterState
	resolver   *ChoiceResolver
	selector   StorySelector
}

// Engine bundles the play components built from one Deps.
type Engine struct {
	Sessions   *SessionManager
	Characters *CharacterState
	Resolver   *ChoiceResolver
	Flow       *GameFlow
}

// NewEngine wires every play component around deps and selector.
func NewEngine(deps Deps, selector StorySelector) (*Engine, error) {
	if selector == nil {
		return nil, apperrors.New(apperrors.CodeUnknown, "play: story selector is required")
	}
	sessions, err := NewSessionManager(deps)
	if err != nil {
		return nil, err
	}
	// Share the defaulted lock table so every component serializes on it.
	deps = sessions.deps
	characters, err := NewCharacterState(deps, sessions)
	if err != nil {
		return nil, err
	}
	resolver, err := NewChoiceResolver(deps, sessions, characters)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Sessions:   sessions,
		Characters: characters,
		Resolver:   resolver,
		Flow: &GameFlow{
			sessions:   sessions,
			characters: characters,
			resolver:   resolver,
			selector:   selector,
		},
	}, nil
}

// Enter resumes the user's active game, or starts a story picked for
// locationID when there is none.
func (f *GameFlow) Enter(ctx context.Context, userID, locationID string) (EnterResult, error) {
	c, err := f.characters.AliveForUser(ctx, userID)
	if err != nil {
		return EnterResult{}, err
	}

	snap, err := f.sessions.Resume(ctx, c.ID)
	if err == nil {
		return EnterResult{Snapshot: snap, Resumed: true}, nil
	}
	if !apperrors.IsNotFound(err, EntityActiveGame) {
		return EnterResult{}, err
	}

	storyID, err := f.selector.Select(ctx, locationID)
	if err != nil {
		return EnterResult{}, err
	}
	snap, err = f.sessions.Start(ctx, c.ID, storyID)
	if apperrors.IsCode(err, apperrors.CodeActiveGameExists) {
		// A concurrent Enter won the start; join its session.
		snap, err = f.sessions.Resume(ctx, c.ID)
		if err != nil {
			return EnterResult{}, err
		}
		return EnterResult{Snapshot: snap, Resumed: true}, nil
	}
	if err != nil {
		return EnterResult{}, err
	}
	return EnterResult{Snapshot: snap}, nil
}

// StartForUser starts storyID for the user's character.
func (f *GameFlow) StartForUser(ctx context.Context, userID, storyID string) (Snapshot, error) {
	c, err := f.characters.AliveForUser(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return f.sessions.Start(ctx, c.ID, storyID)
}

// ResumeForUser returns the user's active game.
func (f *GameFlow) ResumeForUser(ctx context.Context, userID string) (Snapshot, error) {
	c, err := f.characters.AliveForUser(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return f.sessions.Resume(ctx, c.ID)
}

// StateForUser polls the user's game state.
func (f *GameFlow) StateForUser(ctx context.Context, userID string) (State, error) {
	c, err := f.characters.AliveForUser(ctx, userID)
	if err != nil {
		return State{}, err
	}
	return f.sessions.CurrentState(ctx, c.ID)
}

// ChooseForUser applies optionID for the user's character.
func (f *GameFlow) ChooseForUser(ctx context.Context, userID, optionID string) (ChoiceResult, error) {
	c, err := f.characters.AliveForUser(ctx, userID)
	if err != nil {
		return ChoiceResult{}, err
	}
	return f.resolver.MakeChoice(ctx, c.ID, optionID)
}

// QuitForUser ends the user's active game.
func (f *GameFlow) QuitForUser(ctx context.Context, userID string) (character.Character, error) {
	c, err := f.characters.AliveForUser(ctx, userID)
	if err != nil {
		return character.Character{}, err
	}
	return f.sessions.Quit(ctx, c.ID)
}

// KillForUser kills characterID on behalf of userID, who must own it.
func (f *GameFlow) KillForUser(ctx context.Context, userID, characterID string) (character.Character, error) {
	return f.characters.Kill(ctx, UserActor(userID), characterID)
}

// CleanupStale removes sessions older than maxAgeDays.
func (f *GameFlow) CleanupStale(ctx context.Context, maxAgeDays int) (int, error) {
	return f.sessions.CleanupStale(ctx, maxAgeDays)
}
