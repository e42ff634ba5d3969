package question

import (
	"errors"
	"fmt"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
)

var (
	// ErrExhaustedPool is returned when a player has seen every question of a tier.
	ErrExhaustedPool = errors.New("no unused question left")
	// ErrEmptyBank is returned when a source yields no usable question.
	ErrEmptyBank = errors.New("no valid questions in bank")
)

// Supply draws the next unused question for a player.
type Supply struct {
	service *Service
	deck    *Deck
}

func NewSupply(service *Service, deck *Deck) *Supply {
	return &Supply{service: service, deck: deck}
}

// Next returns a question of tier for which seen reports false. A nil seen
// accepts every question.
func (s *Supply) Next(tier game.Tier, seen func(id int) bool) (game.Question, error) {
	pool := ByTier(s.service.Questions(), tier)
	available := pool[:0:0]
	for _, q := range pool {
		if seen == nil || !seen(q.ID) {
			available = append(available, q)
		}
	}

	q, ok := s.deck.Draw(available)
	if !ok {
		return game.Question{}, fmt.Errorf("%s tier (%d in bank): %w", tier, len(pool), ErrExhaustedPool)
	}
	return q, nil
}

// Reset clears the draw order.
func (s *Supply) Reset() {
	s.deck.Reset()
}
