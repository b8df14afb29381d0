package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var riderNames = []string{
	"Ada Vale",
	"Bruno Sato",
	"Clara Nunes",
	"Dmitri Holm",
	"Elif Maren",
	"Felipe Rocha",
	"Greta Lind",
	"Hugo Brandt",
	"Iris Okafor",
	"Jonas Pires",
}

// nameRegistry keeps generated character names distinct across a seed run.
type nameRegistry struct {
	rng    *rand.Rand
	counts map[string]int
}

func newNameRegistry(rng *rand.Rand) *nameRegistry {
	return &nameRegistry{rng: rng, counts: make(map[string]int)}
}

// next picks a rider name, suffixing repeats with their ordinal.
func (r *nameRegistry) next() string {
	return r.unique(riderNames[r.rng.IntN(len(riderNames))])
}

func (r *nameRegistry) unique(base string) string {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return base
	}
	count := r.counts[trimmed]
	r.counts[trimmed] = count + 1
	if count == 0 {
		return trimmed
	}
	return fmt.Sprintf("%s %d", trimmed, count+1)
}
