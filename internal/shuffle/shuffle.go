package shuffle

import (
	"fmt"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/random"
)

// DefaultEasyBias is the chance an easy player sees the correct answer first.
const DefaultEasyBias = 0.4

// Mapping translates display positions to canonical answer indices:
// Mapping[display] == canonical.
type Mapping []int

// Identity returns the unshuffled mapping for n answers.
func Identity(n int) Mapping {
	m := make(Mapping, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// Canonical returns the canonical index shown at display position d.
func (m Mapping) Canonical(d int) (int, bool) {
	if d < 0 || d >= len(m) {
		return 0, false
	}
	return m[d], true
}

// Display returns the display position of canonical index c.
func (m Mapping) Display(c int) (int, bool) {
	for d, canon := range m {
		if canon == c {
			return d, true
		}
	}
	return 0, false
}

// Validate checks that m is a permutation of 0..n-1.
func (m Mapping) Validate(n int) error {
	if len(m) != n {
		return fmt.Errorf("mapping has %d positions, want %d", len(m), n)
	}
	seen := make([]bool, n)
	for d, c := range m {
		if c < 0 || c >= n || seen[c] {
			return fmt.Errorf("mapping position %d: invalid canonical index %d", d, c)
		}
		seen[c] = true
	}
	return nil
}

// Clone returns an independent copy.
func (m Mapping) Clone() Mapping {
	return append(Mapping(nil), m...)
}

// Layout is a question as displayed to one player.
type Layout struct {
	Mapping Mapping  `json:"mapping"`
	Answers []string `json:"answers"`
}

// Shuffler orders answers for display.
type Shuffler struct {
	rng      random.Source
	easyBias float64
}

// New returns a shuffler drawing from rng with the default easy bias.
func New(rng random.Source) *Shuffler {
	return &Shuffler{rng: rng, easyBias: DefaultEasyBias}
}

// WithEasyBias overrides the probability of the correct-first layout for easy players.
func (s *Shuffler) WithEasyBias(p float64) *Shuffler {
	s.easyBias = p
	return s
}

// Shuffle builds the display layout of q for a player of the given tier.
func (s *Shuffler) Shuffle(q game.Question, tier game.Tier) Layout {
	n := len(q.Answers)
	mapping := Identity(n)

	if q.Kind == game.KindMultipleChoice && n > 1 {
		if tier == game.TierEasy && s.rng.Float64() < s.easyBias {
			mapping = s.correctFirst(n, q.CorrectAnswer)
		} else {
			random.Shuffle(s.rng, n, func(i, j int) { mapping[i], mapping[j] = mapping[j], mapping[i] })
		}
	}

	answers := make([]string, n)
	for d, c := range mapping {
		answers[d] = q.Answers[c]
	}
	return Layout{Mapping: mapping, Answers: answers}
}

func (s *Shuffler) correctFirst(n, correct int) Mapping {
	rest := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != correct {
			rest = append(rest, i)
		}
	}
	random.Shuffle(s.rng, len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	return append(Mapping{correct}, rest...)
}
