package game

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls GameService and AdminService over a client connection.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// EnterGame resumes or starts a game at locationID.
func (c *Client) EnterGame(ctx context.Context, locationID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodEnterGame, map[string]any{fieldLocationID: locationID}, opts...)
}

// StartGame starts storyID.
func (c *Client) StartGame(ctx context.Context, storyID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodStartGame, map[string]any{fieldStoryID: storyID}, opts...)
}

// ResumeGame returns the active game.
func (c *Client) ResumeGame(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodResumeGame, nil, opts...)
}

// GetGameState polls the game state.
func (c *Client) GetGameState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetGameState, nil, opts...)
}

// MakeChoice applies optionID.
func (c *Client) MakeChoice(ctx context.Context, optionID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodMakeChoice, map[string]any{fieldOptionID: optionID}, opts...)
}

// QuitGame ends the active game.
func (c *Client) QuitGame(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodQuitGame, nil, opts...)
}

// KillCharacter kills characterID.
func (c *Client) KillCharacter(ctx context.Context, characterID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodKillCharacter, map[string]any{fieldCharacterID: characterID}, opts...)
}

// CleanupStaleSessions removes sessions older than maxAgeDays.
func (c *Client) CleanupStaleSessions(ctx context.Context, maxAgeDays int, opts ...grpc.CallOption) (int, error) {
	out, err := c.invoke(ctx, MethodCleanupStaleSessions, map[string]any{fieldMaxAgeDays: maxAgeDays}, opts...)
	if err != nil {
		return 0, err
	}
	return int(out.GetFields()[fieldRemoved].GetNumberValue()), nil
}

// ListAnalyticsEvents pages through analytics events.
func (c *Client) ListAnalyticsEvents(ctx context.Context, filter string, pageSize int, pageToken string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListAnalyticsEvents, map[string]any{
		fieldFilter:    filter,
		fieldPageSize:  pageSize,
		fieldPageToken: pageToken,
	}, opts...)
}
