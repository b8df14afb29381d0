package play

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nightbus/nightbus/internal/services/game/domain/character"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/storage"
	"github.com/nightbus/nightbus/internal/services/game/storage/sqlite"
)

type fakeAnalyticsStore struct {
	mu     sync.Mutex
	events []storage.AnalyticsEvent
	err    error
	block  chan struct{}
}

func (s *fakeAnalyticsStore) AppendAnalyticsEvent(_ context.Context, evt storage.AnalyticsEvent) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, evt)
	return nil
}

func (s *fakeAnalyticsStore) ListAnalyticsEvents(context.Context, storage.ListAnalyticsEventsRequest) (storage.AnalyticsEventPage, error) {
	return storage.AnalyticsEventPage{}, errors.New("not implemented")
}

func (s *fakeAnalyticsStore) snapshot() []storage.AnalyticsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.AnalyticsEvent(nil), s.events...)
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store     *sqlite.Store
	engine    *Engine
	analytics *fakeAnalyticsStore
	recorder  *Recorder
	clock     *fixedClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	analytics := &fakeAnalyticsStore{}
	recorder := NewRecorder(analytics, 64)
	t.Cleanup(recorder.Close)

	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	engine, err := NewEngine(Deps{
		Store:    store,
		Recorder: recorder,
		Clock:    clock.Now,
	}, NewCatalogSelector(store, nil))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return &testEnv{store: store, engine: engine, analytics: analytics, recorder: recorder, clock: clock}
}

// flushAnalytics closes the recorder so every queued event is written.
func (e *testEnv) flushAnalytics() []storage.AnalyticsEvent {
	e.recorder.Close()
	return e.analytics.snapshot()
}

func (e *testEnv) putCharacter(t *testing.T, id, userID string, health, sanity int) character.Character {
	t.Helper()
	c := character.Character{
		ID:        id,
		UserID:    userID,
		Name:      "Rider " + id,
		Health:    health,
		Sanity:    sanity,
		CreatedAt: e.clock.Now(),
		UpdatedAt: e.clock.Now(),
	}
	if err := e.store.PutCharacter(context.Background(), c); err != nil {
		t.Fatalf("put character: %v", err)
	}
	return c
}

// putStory stores a story whose page n has options "<id>-p<n>-hurt"
// (health -30), "<id>-p<n>-calm" (no effect), "<id>-p<n>-odd" (unknown
// kind), "<id>-p<n>-doom" (health -150), "<id>-p<n>-madness" (sanity -150)
// and "<id>-p<n>-rest" (health +50).
func (e *testEnv) putStory(t *testing.T, storyID, locationID string, pageCount int) {
	t.Helper()
	var pages []narrative.Page
	for n := 1; n <= pageCount; n++ {
		pageID := fmt.Sprintf("%s-p%d", storyID, n)
		pages = append(pages, narrative.Page{
			ID:      pageID,
			StoryID: storyID,
			Number:  n,
			Content: fmt.Sprintf("page %d of %s", n, storyID),
			Options: []narrative.Option{
				{ID: pageID + "-hurt", PageID: pageID, Label: "jump the gap", Effect: narrative.Effect{Kind: narrative.EffectHealth, Amount: -30}},
				{ID: pageID + "-calm", PageID: pageID, Label: "sit down", Effect: narrative.Effect{Kind: narrative.EffectNone}},
				{ID: pageID + "-odd", PageID: pageID, Label: "count coins", Effect: narrative.Effect{Kind: narrative.EffectKind("gold"), Amount: 50}},
				{ID: pageID + "-doom", PageID: pageID, Label: "touch the rail", Effect: narrative.Effect{Kind: narrative.EffectHealth, Amount: -150}},
				{ID: pageID + "-madness", PageID: pageID, Label: "read the timetable", Effect: narrative.Effect{Kind: narrative.EffectSanity, Amount: -150}},
				{ID: pageID + "-rest", PageID: pageID, Label: "doze off", Effect: narrative.Effect{Kind: narrative.EffectHealth, Amount: 50}},
			},
		})
	}
	story := narrative.Story{ID: storyID, Title: "Line " + storyID, LocationID: locationID}
	if err := e.store.PutStory(context.Background(), story, pages); err != nil {
		t.Fatalf("put story: %v", err)
	}
}
