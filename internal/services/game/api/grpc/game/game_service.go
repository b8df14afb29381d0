package game

import (
	"context"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/api/grpc/auth"
	grpcmeta "github.com/nightbus/nightbus/internal/services/game/api/grpc/metadata"
	"github.com/nightbus/nightbus/internal/services/game/play"
	"google.golang.org/protobuf/types/known/structpb"
)

// GameService implements the nightbus.game.v1.GameService gRPC API.
type GameService struct {
	flow *play.GameFlow
}

// NewGameService creates a GameService backed by flow.
func NewGameService(flow *play.GameFlow) *GameService {
	return &GameService{flow: flow}
}

var _ GameServiceServer = (*GameService)(nil)

// EnterGame resumes the caller's game or starts one at location_id.
func (s *GameService) EnterGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	locationID, err := requiredStringField(in, fieldLocationID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	result, err := s.flow.Enter(ctx, userID, locationID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	out := snapshotToMap(result.Snapshot)
	out["resumed"] = result.Resumed
	return respond(ctx, out)
}

// StartGame starts story_id for the caller's character.
func (s *GameService) StartGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	storyID, err := requiredStringField(in, fieldStoryID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	snap, err := s.flow.StartForUser(ctx, userID, storyID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(ctx, snapshotToMap(snap))
}

// ResumeGame returns the caller's active game.
func (s *GameService) ResumeGame(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	snap, err := s.flow.ResumeForUser(ctx, userID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(ctx, snapshotToMap(snap))
}

// GetGameState polls the caller's game; "active" is false when no game runs.
func (s *GameService) GetGameState(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	state, err := s.flow.StateForUser(ctx, userID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(ctx, stateToMap(state))
}

// MakeChoice applies option_id to the caller's game.
func (s *GameService) MakeChoice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	optionID, err := requiredStringField(in, fieldOptionID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	result, err := s.flow.ChooseForUser(ctx, userID, optionID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(ctx, choiceResultToMap(result))
}

// QuitGame ends the caller's game without touching stats.
func (s *GameService) QuitGame(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	c, err := s.flow.QuitForUser(ctx, userID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(ctx, map[string]any{"character": characterToMap(c)})
}

// KillCharacter kills character_id, which the caller must own.
func (s *GameService) KillCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	characterID, err := requiredStringField(in, fieldCharacterID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	c, err := s.flow.KillForUser(ctx, userID, characterID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(ctx, map[string]any{"character": characterToMap(c)})
}

func respond(ctx context.Context, fields map[string]any) (*structpb.Struct, error) {
	out, err := newStruct(fields)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return out, nil
}

// handleDomainError converts err to a gRPC status localized for the caller.
func handleDomainError(ctx context.Context, err error) error {
	return apperrors.HandleError(err, grpcmeta.LocaleFromIncoming(ctx))
}
