package storage

import (
	"context"
	"time"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/domain/character"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/domain/session"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrActiveGameExists indicates a session row already exists for the character.
var ErrActiveGameExists = apperrors.New(apperrors.CodeActiveGameExists, "active game already exists for character")

// CharacterStore persists characters. Characters are soft-deleted only.
type CharacterStore interface {
	// PutCharacter inserts or replaces a character.
	PutCharacter(ctx context.Context, c character.Character) error
	// GetCharacter returns a character by id, dead or alive.
	GetCharacter(ctx context.Context, characterID string) (character.Character, error)
	// GetAliveCharacterByUser returns the user's character that is not marked dead.
	GetAliveCharacterByUser(ctx context.Context, userID string) (character.Character, error)
}

// NarrativeReader reads immutable story content.
type NarrativeReader interface {
	GetStory(ctx context.Context, storyID string) (narrative.Story, error)
	// GetPageByNumber returns the page with its options in display order.
	GetPageByNumber(ctx context.Context, storyID string, number int) (narrative.Page, error)
	// GetPage returns the page with its options in display order.
	GetPage(ctx context.Context, pageID string) (narrative.Page, error)
	GetOption(ctx context.Context, optionID string) (narrative.Option, error)
	CountPages(ctx context.Context, storyID string) (int, error)
}

// StoryCatalog lists stories available at a location.
type StoryCatalog interface {
	ListStoryIDsByLocation(ctx context.Context, locationID string) ([]string, error)
}

// StoryWriter imports story content. Existing stories are replaced whole
// and the sessions playing them end.
type StoryWriter interface {
	PutStory(ctx context.Context, story narrative.Story, pages []narrative.Page) error
}

// SessionStore persists active sessions, at most one per character.
type SessionStore interface {
	GetSession(ctx context.Context, characterID string) (session.Session, error)
	// CreateSession returns ErrActiveGameExists when the character already has one.
	CreateSession(ctx context.Context, s session.Session) error
	// AdvanceSession moves the session to pageID.
	AdvanceSession(ctx context.Context, characterID, pageID string, at time.Time) error
	// DeleteSession removes the session and reports whether one existed.
	DeleteSession(ctx context.Context, characterID string) (bool, error)
	// DeleteSessionsCreatedBefore removes sessions created before cutoff.
	DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// GameStore is the set of stores a game transaction touches.
type GameStore interface {
	CharacterStore
	NarrativeReader
	SessionStore
}

// TxStore runs fn inside one transaction. fn's GameStore is bound to the
// transaction; returning an error rolls it back.
type TxStore interface {
	GameStore
	WithTx(ctx context.Context, fn func(tx GameStore) error) error
}

// AnalyticsKind names an analytics event.
type AnalyticsKind string

const (
	AnalyticsChoiceMade   AnalyticsKind = "choice_made"
	AnalyticsSessionEnded AnalyticsKind = "session_ended"
)

// AnalyticsEvent is one append-only analytics record.
type AnalyticsEvent struct {
	Seq         int64
	Kind        AnalyticsKind
	CharacterID string
	StoryID     string
	OptionID    string
	Reason      session.EndReason
	RequestID   string
	TraceID     string
	Timestamp   time.Time
}

// ListAnalyticsEventsRequest pages through analytics events in sequence order.
type ListAnalyticsEventsRequest struct {
	PageSize int
	// AfterSeq returns events with Seq greater than this value.
	AfterSeq int64
	// FilterClause is an optional SQL WHERE clause fragment.
	FilterClause string
	// FilterParams are the positional parameters for the filter clause.
	FilterParams []any
}

// AnalyticsEventPage is one page of analytics events.
type AnalyticsEventPage struct {
	Events []AnalyticsEvent
	// HasMore reports whether events exist beyond the last one returned.
	HasMore bool
}

// AnalyticsStore appends and lists analytics events.
type AnalyticsStore interface {
	AppendAnalyticsEvent(ctx context.Context, evt AnalyticsEvent) error
	ListAnalyticsEvents(ctx context.Context, req ListAnalyticsEventsRequest) (AnalyticsEventPage, error)
}
