package game

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/nightbus/nightbus/internal/services/game/api/grpc/auth"
	grpcmeta "github.com/nightbus/nightbus/internal/services/game/api/grpc/metadata"
	"github.com/nightbus/nightbus/internal/services/game/domain/character"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/play"
	"github.com/nightbus/nightbus/internal/services/game/storage/sqlite"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type testServer struct {
	store  *sqlite.Store
	client *Client
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	engine, err := play.NewEngine(play.Deps{Store: store}, play.NewCatalogSelector(store, nil))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := gogrpc.NewServer(gogrpc.ChainUnaryInterceptor(
		grpcmeta.UnaryServerInterceptor(nil),
		auth.NewAuthenticator(nil).UnaryServerInterceptor(),
	))
	RegisterGameServiceServer(server, NewGameService(engine.Flow))
	RegisterAdminServiceServer(server, NewAdminService(engine.Flow, store))
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := gogrpc.NewClient(listener.Addr().String(), gogrpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return &testServer{store: store, client: NewClient(conn)}
}

func (s *testServer) putCharacter(t *testing.T, id, userID string) {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.store.PutCharacter(context.Background(), character.Character{
		ID: id, UserID: userID, Name: "Rider", Health: 100, Sanity: 100, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("put character: %v", err)
	}
}

// putStory stores a story whose pages each offer "<id>-p<n>-go" (no effect)
// and "<id>-p<n>-fall" (health -200).
func (s *testServer) putStory(t *testing.T, storyID, locationID string, pageCount int) {
	t.Helper()
	var pages []narrative.Page
	for n := 1; n <= pageCount; n++ {
		pageID := fmt.Sprintf("%s-p%d", storyID, n)
		pages = append(pages, narrative.Page{
			ID: pageID, StoryID: storyID, Number: n, Content: "The bus rattles on.",
			Options: []narrative.Option{
				{ID: pageID + "-go", PageID: pageID, Label: "stay seated"},
				{ID: pageID + "-fall", PageID: pageID, Label: "open the door", Effect: narrative.Effect{Kind: narrative.EffectHealth, Amount: -200}},
			},
		})
	}
	if err := s.store.PutStory(context.Background(), narrative.Story{ID: storyID, Title: "Night Line", LocationID: locationID}, pages); err != nil {
		t.Fatalf("put story: %v", err)
	}
}

func asUser(userID string, pairs ...string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), append([]string{grpcmeta.UserIDHeader, userID}, pairs...)...)
}

func asAdmin() context.Context {
	return asUser("ops", grpcmeta.RoleHeader, auth.RoleAdmin)
}
