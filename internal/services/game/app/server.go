package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/nightbus/nightbus/internal/services/game/api/grpc/auth"
	gamegrpc "github.com/nightbus/nightbus/internal/services/game/api/grpc/game"
	"github.com/nightbus/nightbus/internal/services/game/api/grpc/interceptors"
	grpcmeta "github.com/nightbus/nightbus/internal/services/game/api/grpc/metadata"
	"github.com/nightbus/nightbus/internal/services/game/play"
	storagesqlite "github.com/nightbus/nightbus/internal/services/game/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config configures the game server.
type Config struct {
	// Addr is the listen address, e.g. ":8082" or "127.0.0.1:0".
	Addr string
	// DBPath is the SQLite database file; defaults to data/game.db.
	DBPath string
	// AnalyticsQueueSize bounds the analytics queue; 0 uses the default.
	AnalyticsQueueSize int
	// PlayToken enables bearer-token authentication. Nil selects development
	// mode.
	PlayToken *auth.Config
}

// Server hosts the nightbus game server.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *storagesqlite.Store
	recorder   *play.Recorder
}

// New creates a configured game server listening on cfg.Addr.
func New(cfg Config) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	store, err := openGameStore(cfg.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	queueSize := cfg.AnalyticsQueueSize
	if queueSize <= 0 {
		queueSize = play.DefaultAnalyticsQueueSize
	}
	recorder := play.NewRecorder(store, queueSize)
	engine, err := play.NewEngine(play.Deps{
		Store:    store,
		Recorder: recorder,
	}, play.NewCatalogSelector(store, nil))
	if err != nil {
		recorder.Close()
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	authenticator := auth.NewAuthenticator(cfg.PlayToken)
	if authenticator.DevelopmentMode() {
		log.Printf("play token verifier not configured; trusting %s headers", grpcmeta.UserIDHeader)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			interceptors.LoggingInterceptor(log.Printf, nil),
			authenticator.UnaryServerInterceptor(),
		),
	)
	healthServer := health.NewServer()
	gamegrpc.RegisterGameServiceServer(grpcServer, gamegrpc.NewGameService(engine.Flow))
	gamegrpc.RegisterAdminServiceServer(grpcServer, gamegrpc.NewAdminService(engine.Flow, store))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gamegrpc.GameServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gamegrpc.AdminServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		recorder:   recorder,
	}, nil
}

// Addr returns the listener address for the game server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a game server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	srv, err := New(cfg)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve starts the game server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.close()

	log.Printf("game server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

// close drains analytics before the store goes away.
func (s *Server) close() {
	s.recorder.Close()
	if err := s.store.Close(); err != nil {
		log.Printf("close game store: %v", err)
	}
}

func openGameStore(path string) (*storagesqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "game.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := storagesqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}
