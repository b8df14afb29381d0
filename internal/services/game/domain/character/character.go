package character

import (
	"fmt"
	"time"

	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
)

const (
	// MinStat is the lowest value a stat can hold.
	MinStat = 0
	// MaxStat is the highest value a stat can hold.
	MaxStat = 100
)

// Character is a user's playable character.
type Character struct {
	ID        string
	UserID    string
	Name      string
	Health    int
	Sanity    int
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Delta describes what one effect did to a character.
type Delta struct {
	Kind   narrative.EffectKind
	Amount int
	Before int
	After  int
}

// Changed reports whether the effect moved a stat.
func (d Delta) Changed() bool {
	return d.Kind != narrative.EffectNone && d.Before != d.After
}

// Message renders the delta for players, e.g. "health -30 (100 -> 70)".
func (d Delta) Message() string {
	if d.Kind == narrative.EffectNone || d.Amount == 0 {
		return "no effect"
	}
	return fmt.Sprintf("%s %+d (%d -> %d)", d.Kind, d.Amount, d.Before, d.After)
}

// Clamp bounds value to [MinStat, MaxStat].
func Clamp(value int) int {
	return max(MinStat, min(MaxStat, value))
}

// ApplyEffect returns c with effect applied. Only health and sanity effects
// change stats; every other kind, and a zero amount, leaves c as is.
func ApplyEffect(c Character, effect narrative.Effect) (Character, Delta) {
	delta := Delta{Kind: effect.Kind, Amount: effect.Amount}
	switch effect.Kind {
	case narrative.EffectHealth:
		delta.Before = c.Health
		c.Health = Clamp(c.Health + effect.Amount)
		delta.After = c.Health
	case narrative.EffectSanity:
		delta.Before = c.Sanity
		c.Sanity = Clamp(c.Sanity + effect.Amount)
		delta.After = c.Sanity
	default:
		delta.Kind = narrative.EffectNone
	}
	return c, delta
}

// HasVitals reports whether both stats are above zero.
func HasVitals(c Character) bool {
	return c.Health > 0 && c.Sanity > 0
}

// IsAlive reports whether c can play: positive stats and not marked dead.
func IsAlive(c Character) bool {
	return HasVitals(c) && c.DeletedAt == nil
}

// MarkDead sets DeletedAt to now unless it is already set.
// It reports whether the character changed.
func MarkDead(c Character, now time.Time) (Character, bool) {
	if c.DeletedAt != nil {
		return c, false
	}
	at := now.UTC()
	c.DeletedAt = &at
	c.UpdatedAt = at
	return c, true
}
