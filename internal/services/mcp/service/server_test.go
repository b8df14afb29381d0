package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nightbus/nightbus/internal/platform/requestctx"
	"github.com/nightbus/nightbus/internal/services/game/api/grpc/auth"
	gamegrpc "github.com/nightbus/nightbus/internal/services/game/api/grpc/game"
	"github.com/nightbus/nightbus/internal/services/mcp/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// fakeGameServer answers GetGameState with the caller's user id.
type fakeGameServer struct{}

func (fakeGameServer) EnterGame(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "not used")
}

func (fakeGameServer) StartGame(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "not used")
}

func (fakeGameServer) ResumeGame(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "not used")
}

func (fakeGameServer) GetGameState(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"active":    false,
		"character": map[string]any{"id": requestctx.UserIDFromContext(ctx), "alive": true},
	})
}

func (fakeGameServer) MakeChoice(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "not used")
}

func (fakeGameServer) QuitGame(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "not used")
}

func (fakeGameServer) KillCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "not used")
}

func startGameServer(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := grpc.NewServer(grpc.UnaryInterceptor(auth.NewAuthenticator(nil).UnaryServerInterceptor()))
	gamegrpc.RegisterGameServiceServer(server, fakeGameServer{})
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)
	return listener.Addr().String()
}

func TestRunWithTransportServesTools(t *testing.T) {
	addr := startGameServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- runWithTransport(ctx, Config{GRPCAddr: addr, Identity: domain.Identity{UserID: "user-1"}}, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer clientCancel()
	session, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(clientCtx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"game_enter", "game_state", "game_choose", "game_quit"} {
		if !names[want] {
			t.Fatalf("missing tool %s in %v", want, names)
		}
	}

	result, err := session.CallTool(clientCtx, &mcp.CallToolParams{Name: "game_state", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call game_state: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %+v", result.Content)
	}
	structured, ok := result.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("structured content = %#v", result.StructuredContent)
	}
	character, _ := structured["character"].(map[string]any)
	if character["id"] != "user-1" {
		t.Fatalf("character = %#v", structured["character"])
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestNewRequiresIdentity(t *testing.T) {
	if _, err := New(context.Background(), Config{GRPCAddr: "127.0.0.1:1"}); err == nil {
		t.Fatal("expected identity error")
	}
}

func TestServeWithTransportRequiresServer(t *testing.T) {
	var nilServer *Server
	if err := nilServer.serveWithTransport(context.Background(), &mcp.StdioTransport{}); err == nil {
		t.Fatal("expected error for nil server")
	}
	if err := (&Server{}).serveWithTransport(context.Background(), &mcp.StdioTransport{}); err == nil {
		t.Fatal("expected error for missing mcp server")
	}
}

func TestGRPCAddress(t *testing.T) {
	if grpcAddress(" ") != defaultGRPCAddr {
		t.Fatal("expected default address")
	}
	if grpcAddress("game:9000") != "game:9000" {
		t.Fatal("expected configured address")
	}
}
