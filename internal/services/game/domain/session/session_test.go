package session

import (
	"math"
	"testing"
	"time"
)

func TestEndReasonMessage(t *testing.T) {
	if EndDeath.Message() != "character died" {
		t.Fatalf("death message = %q", EndDeath.Message())
	}
	if EndCompletion.Message() != "story complete" {
		t.Fatalf("completion message = %q", EndCompletion.Message())
	}
	if EndQuit.Message() != "" {
		t.Fatalf("quit message = %q", EndQuit.Message())
	}
}

func TestStaleCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	if got := StaleCutoff(now, 7); !got.Equal(time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("cutoff = %v", got)
	}
	if got := StaleCutoff(now, 0); !got.Equal(now) {
		t.Fatalf("zero-day cutoff = %v", got)
	}
	if got := StaleCutoff(now, 200000); !got.IsZero() {
		t.Fatalf("large cutoff = %v, want zero time", got)
	}
	if got := StaleCutoff(now, math.MaxInt32); !got.IsZero() {
		t.Fatalf("max int32 cutoff = %v, want zero time", got)
	}
	if got := StaleCutoff(now, 106751); !got.Before(now) {
		t.Fatalf("largest representable cutoff = %v, want before %v", got, now)
	}
}
