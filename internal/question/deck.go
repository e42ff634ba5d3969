package question

import (
	"sync"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/random"
)

type deckKey struct {
	size int
	tier game.Tier
}

type cursor struct {
	order []game.Question
	next  int
}

// Deck hands out questions from a pool in shuffled order, reshuffling once the
// order is drained. Cursors are keyed by pool size and tier.
type Deck struct {
	mu      sync.Mutex
	rng     random.Source
	cursors map[deckKey]*cursor
}

func NewDeck(rng random.Source) *Deck {
	return &Deck{rng: rng, cursors: map[deckKey]*cursor{}}
}

// Draw returns the next question of pool, or false when pool is empty.
// Cursor entries missing from pool are skipped; when the cursor drains
// without a match, pool is reshuffled.
func (d *Deck) Draw(pool []game.Question) (game.Question, bool) {
	if len(pool) == 0 {
		return game.Question{}, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	in := make(map[int]struct{}, len(pool))
	for _, q := range pool {
		in[q.ID] = struct{}{}
	}

	key := deckKey{size: len(pool), tier: pool[0].Tier}
	if c, ok := d.cursors[key]; ok {
		for c.next < len(c.order) {
			q := c.order[c.next]
			c.next++
			if _, ok := in[q.ID]; ok {
				return q, true
			}
		}
	}

	order := append([]game.Question(nil), pool...)
	random.Shuffle(d.rng, len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	d.cursors[key] = &cursor{order: order, next: 1}
	return order[0], true
}

// Reset drops every cursor. Called when a game starts.
func (d *Deck) Reset() {
	d.mu.Lock()
	d.cursors = map[deckKey]*cursor{}
	d.mu.Unlock()
}
