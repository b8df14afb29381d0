package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nightbus/nightbus/internal/platform/timeouts"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// GameClient is the subset of the GameService client the tools use.
type GameClient interface {
	EnterGame(ctx context.Context, locationID string, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetGameState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error)
	MakeChoice(ctx context.Context, optionID string, opts ...grpc.CallOption) (*structpb.Struct, error)
	QuitGame(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error)
}

// OptionView is one choice on a page.
type OptionView struct {
	ID    string `json:"id" jsonschema:"option identifier to pass to game_choose"`
	Label string `json:"label" jsonschema:"option text"`
}

// PageView is the page the character is on.
type PageView struct {
	ID      string       `json:"id" jsonschema:"page identifier"`
	Number  int          `json:"number" jsonschema:"1-based page number"`
	Content string       `json:"content" jsonschema:"page text"`
	Options []OptionView `json:"options" jsonschema:"available choices"`
}

// StoryView describes the story being played.
type StoryView struct {
	ID         string `json:"id" jsonschema:"story identifier"`
	Title      string `json:"title" jsonschema:"story title"`
	LocationID string `json:"location_id" jsonschema:"location the story belongs to"`
	PageCount  int    `json:"page_count" jsonschema:"number of pages"`
}

// CharacterView is the character's public state.
type CharacterView struct {
	ID     string `json:"id" jsonschema:"character identifier"`
	Name   string `json:"name" jsonschema:"character name"`
	Health int    `json:"health" jsonschema:"health from 0 to 100"`
	Sanity int    `json:"sanity" jsonschema:"sanity from 0 to 100"`
	Alive  bool   `json:"alive" jsonschema:"false once the character has died"`
}

// GameView is the common output of the game tools.
type GameView struct {
	Active        bool           `json:"active" jsonschema:"true while a game is in progress"`
	Resumed       bool           `json:"resumed,omitempty" jsonschema:"true when game_enter picked up an existing game"`
	GameOver      bool           `json:"game_over,omitempty" jsonschema:"true when the last choice ended the game"`
	Reason        string         `json:"reason,omitempty" jsonschema:"why the game ended"`
	EffectMessage string         `json:"effect_message,omitempty" jsonschema:"what the last choice did to the character"`
	Story         *StoryView     `json:"story,omitempty" jsonschema:"current story"`
	Page          *PageView      `json:"page,omitempty" jsonschema:"current page"`
	Character     *CharacterView `json:"character,omitempty" jsonschema:"character state"`
}

// GameEnterInput is the input of game_enter.
type GameEnterInput struct {
	LocationID string `json:"location_id" jsonschema:"location whose stories may be started"`
}

// GameStateInput is the input of game_state.
type GameStateInput struct{}

// GameChooseInput is the input of game_choose.
type GameChooseInput struct {
	OptionID string `json:"option_id" jsonschema:"option identifier from the current page"`
}

// GameQuitInput is the input of game_quit.
type GameQuitInput struct{}

// GameEnterTool defines the game_enter tool.
func GameEnterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_enter",
		Description: "Resumes the active game, or starts a story at the given location when none is running.",
	}
}

// GameStateTool defines the game_state tool.
func GameStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_state",
		Description: "Returns the current page, options and character stats, or active=false when no game runs.",
	}
}

// GameChooseTool defines the game_choose tool.
func GameChooseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_choose",
		Description: "Chooses an option on the current page and returns the next page or the end of the game.",
	}
}

// GameQuitTool defines the game_quit tool.
func GameQuitTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_quit",
		Description: "Abandons the active game without changing the character.",
	}
}

// GameEnterHandler executes game_enter.
func GameEnterHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[GameEnterInput, GameView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameEnterInput) (*mcp.CallToolResult, GameView, error) {
		return call(ctx, identity, "game enter", func(callCtx context.Context) (*structpb.Struct, error) {
			return client.EnterGame(callCtx, input.LocationID)
		}, true)
	}
}

// GameStateHandler executes game_state.
func GameStateHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[GameStateInput, GameView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ GameStateInput) (*mcp.CallToolResult, GameView, error) {
		return call(ctx, identity, "game state", func(callCtx context.Context) (*structpb.Struct, error) {
			return client.GetGameState(callCtx)
		}, false)
	}
}

// GameChooseHandler executes game_choose.
func GameChooseHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[GameChooseInput, GameView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameChooseInput) (*mcp.CallToolResult, GameView, error) {
		return call(ctx, identity, "game choose", func(callCtx context.Context) (*structpb.Struct, error) {
			return client.MakeChoice(callCtx, input.OptionID)
		}, false)
	}
}

// GameQuitHandler executes game_quit.
func GameQuitHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[GameQuitInput, GameView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ GameQuitInput) (*mcp.CallToolResult, GameView, error) {
		return call(ctx, identity, "game quit", func(callCtx context.Context) (*structpb.Struct, error) {
			return client.QuitGame(callCtx)
		}, false)
	}
}

// call runs one GameService request. When active is set the view is marked
// active; otherwise the response decides.
func call(ctx context.Context, identity Identity, name string, do func(context.Context) (*structpb.Struct, error), active bool) (*mcp.CallToolResult, GameView, error) {
	invocationID, err := NewInvocationID()
	if err != nil {
		return nil, GameView{}, fmt.Errorf("generate invocation id: %w", err)
	}
	runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	defer cancel()

	response, err := do(NewOutgoingContext(runCtx, identity, invocationID))
	if err != nil {
		return nil, GameView{}, fmt.Errorf("%s failed: %w", name, err)
	}
	view, err := decodeGameView(response)
	if err != nil {
		return nil, GameView{}, fmt.Errorf("%s: %w", name, err)
	}
	if active {
		view.Active = true
	}
	if view.Page != nil && !view.GameOver {
		view.Active = true
	}
	return nil, view, nil
}

// decodeGameView converts a GameService payload into a GameView.
func decodeGameView(response *structpb.Struct) (GameView, error) {
	if response == nil {
		return GameView{}, fmt.Errorf("response is missing")
	}
	raw, err := protojson.Marshal(response)
	if err != nil {
		return GameView{}, fmt.Errorf("encode response: %w", err)
	}
	var view GameView
	if err := json.Unmarshal(raw, &view); err != nil {
		return GameView{}, fmt.Errorf("decode response: %w", err)
	}
	return view, nil
}
