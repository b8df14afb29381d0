package game

import (
	"context"
	"testing"
	"time"

	"github.com/nightbus/nightbus/internal/services/game/domain/session"
	"github.com/nightbus/nightbus/internal/services/game/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCleanupStaleSessionsRequiresAdmin(t *testing.T) {
	srv := startTestServer(t)
	if _, err := srv.client.CleanupStaleSessions(asUser("user-1"), 7); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("code = %v", status.Code(err))
	}
	if _, err := srv.client.CleanupStaleSessions(context.Background(), 7); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("anonymous code = %v", status.Code(err))
	}
}

func TestCleanupStaleSessions(t *testing.T) {
	srv := startTestServer(t)
	srv.putStory(t, "night", "stop-7", 2)
	srv.putCharacter(t, "char-1", "user-1")
	if _, err := srv.client.StartGame(asUser("user-1"), "night"); err != nil {
		t.Fatalf("start: %v", err)
	}

	removed, err := srv.client.CleanupStaleSessions(asAdmin(), 7)
	if err != nil || removed != 0 {
		t.Fatalf("fresh cleanup = %d, %v", removed, err)
	}
	if _, err := srv.client.CleanupStaleSessions(asAdmin(), -3); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("negative days code = %v", status.Code(err))
	}
}

func TestListAnalyticsEvents(t *testing.T) {
	srv := startTestServer(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		evt := storage.AnalyticsEvent{
			Kind:        storage.AnalyticsChoiceMade,
			CharacterID: "char-1",
			StoryID:     "night",
			OptionID:    "opt",
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		}
		if i == 4 {
			evt.Kind = storage.AnalyticsSessionEnded
			evt.Reason = session.EndDeath
			evt.OptionID = ""
		}
		if err := srv.store.AppendAnalyticsEvent(ctx, evt); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	first, err := srv.client.ListAnalyticsEvents(asAdmin(), `kind = "choice_made"`, 3, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := len(field(first, "events").GetListValue().GetValues()); got != 3 {
		t.Fatalf("first page events = %d", got)
	}
	token := field(first, "next_page_token").GetStringValue()
	if token == "" {
		t.Fatal("expected next page token")
	}

	second, err := srv.client.ListAnalyticsEvents(asAdmin(), `kind = "choice_made"`, 3, token)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if got := len(field(second, "events").GetListValue().GetValues()); got != 1 {
		t.Fatalf("second page events = %d", got)
	}
	if field(second, "next_page_token").GetStringValue() != "" {
		t.Fatal("expected last page")
	}

	deaths, err := srv.client.ListAnalyticsEvents(asAdmin(), `reason = "death"`, 0, "")
	if err != nil {
		t.Fatalf("list deaths: %v", err)
	}
	events := field(deaths, "events").GetListValue().GetValues()
	if len(events) != 1 || events[0].GetStructValue().GetFields()["kind"].GetStringValue() != "session_ended" {
		t.Fatalf("deaths = %v", events)
	}
}

func TestListAnalyticsEventsRejectsBadInput(t *testing.T) {
	srv := startTestServer(t)
	if _, err := srv.client.ListAnalyticsEvents(asAdmin(), `colour = "red"`, 10, ""); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("unknown field code = %v", status.Code(err))
	}
	if _, err := srv.client.ListAnalyticsEvents(asAdmin(), "", 10, "garbage!"); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("bad token code = %v", status.Code(err))
	}
}
