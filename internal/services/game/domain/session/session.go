package session

import (
	"math"
	"time"
)

// Session is a character's position in a story.
type Session struct {
	CharacterID string
	StoryID     string
	PageID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EndReason explains why a session stopped.
type EndReason string

const (
	// EndDeath means the character died on the last choice.
	EndDeath EndReason = "death"
	// EndCompletion means the last page was passed.
	EndCompletion EndReason = "completion"
	// EndQuit means the player left the story.
	EndQuit EndReason = "quit"
	// EndStale means cleanup removed an abandoned session.
	EndStale EndReason = "stale"
)

// Outcome messages returned to players when a game ends.
const (
	ReasonCharacterDied = "character died"
	ReasonStoryComplete = "story complete"
)

// Message returns the player-facing outcome text for reasons that end a game
// through play, or "" for the others.
func (r EndReason) Message() string {
	switch r {
	case EndDeath:
		return ReasonCharacterDied
	case EndCompletion:
		return ReasonStoryComplete
	default:
		return ""
	}
}

// maxCutoffDays is the largest age whose duration fits in a time.Duration.
const maxCutoffDays = math.MaxInt64 / int64(24*time.Hour)

// StaleCutoff returns the creation time before which sessions count as stale.
// Ages too large for a time.Duration return the zero time, which no session
// predates.
func StaleCutoff(now time.Time, maxAgeDays int) time.Time {
	if int64(maxAgeDays) > maxCutoffDays {
		return time.Time{}
	}
	return now.Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
}
