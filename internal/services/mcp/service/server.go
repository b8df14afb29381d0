package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	platformgrpc "github.com/nightbus/nightbus/internal/platform/grpc"
	"github.com/nightbus/nightbus/internal/platform/timeouts"
	gamegrpc "github.com/nightbus/nightbus/internal/services/game/api/grpc/game"
	"github.com/nightbus/nightbus/internal/services/mcp/domain"
	"google.golang.org/grpc"
)

const (
	serverName    = "nightbus"
	serverVersion = "0.1.0"
	// defaultGRPCAddr is the game server address used when none is configured.
	defaultGRPCAddr = "localhost:8082"
)

// Config configures the MCP server.
type Config struct {
	GRPCAddr string
	Identity domain.Identity
}

// Server hosts the MCP tools and the gRPC connection they use.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// New connects to the game server and registers the tools.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if err := cfg.Identity.Validate(); err != nil {
		return nil, err
	}
	addr := grpcAddress(cfg.GRPCAddr)
	conn, err := platformgrpc.Connect(ctx, addr, timeouts.GRPCDial, log.Printf)
	if err != nil {
		return nil, fmt.Errorf("connect to game server at %s: %w", addr, err)
	}
	return newServer(conn, cfg.Identity), nil
}

func newServer(conn *grpc.ClientConn, identity domain.Identity) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerTools(mcpServer, gamegrpc.NewClient(conn), identity)
	return &Server{mcpServer: mcpServer, conn: conn}
}

func registerTools(server *mcp.Server, client domain.GameClient, identity domain.Identity) {
	mcp.AddTool(server, domain.GameEnterTool(), domain.GameEnterHandler(client, identity))
	mcp.AddTool(server, domain.GameStateTool(), domain.GameStateHandler(client, identity))
	mcp.AddTool(server, domain.GameChooseTool(), domain.GameChooseHandler(client, identity))
	mcp.AddTool(server, domain.GameQuitTool(), domain.GameQuitHandler(client, identity))
}

// Run connects and serves MCP over stdio until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
}

func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// Serve serves MCP over stdio and blocks until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func grpcAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return defaultGRPCAddr
	}
	return addr
}
