package cards

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/random"
	"github.com/gokatarajesh/hotseat-trivia/internal/shuffle"
)

// RevelationCount is how many wrong answers a revelation removes.
const RevelationCount = 2

var (
	ErrUnsafeElimination = errors.New("elimination would remove the correct answer")
	ErrTooFewWrong       = errors.New("not enough wrong answers to eliminate")
)

// Guard carries the presentation flags that forbid a card check.
type Guard struct {
	CardVisible   bool
	CardResolving bool
	Streak        int
	OfferPending  bool
}

// Blocked reports whether a draw must be skipped. A streak of two or more
// leaves room for the shared bonus offer.
func (g Guard) Blocked() bool {
	return g.CardVisible || g.CardResolving || g.OfferPending || g.Streak >= 2
}

// Request describes the presentation a card is drawn for. Mapping must be
// captured at draw time.
type Request struct {
	Tier          game.Tier
	QuestionKind  game.QuestionKind
	CorrectAnswer int
	Mapping       shuffle.Mapping
	PlayerCount   int
}

// Draw is a fired card. Effect is set for cards that change scores at once;
// a revelation carries its eliminated display positions instead.
type Draw struct {
	Kind       Kind
	Info       Info
	Effect     *game.CardEffect
	Eliminated []int
}

// Resolver decides which card, if any, fires for a presentation.
type Resolver struct {
	table  Table
	rng    random.Source
	logger zerolog.Logger
}

// NewResolver builds a resolver. A nil table uses DefaultTable.
func NewResolver(table Table, rng random.Source, logger zerolog.Logger) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{
		table:  table,
		rng:    rng,
		logger: logger.With().Str("component", "cards").Logger(),
	}
}

// Pick evaluates the thresholds in priority order against a single draw and
// returns the first eligible card.
func (r *Resolver) Pick(draw float64, req Request) (Kind, bool) {
	odds, ok := r.table[req.Tier]
	if !ok {
		return "", false
	}
	for _, k := range Priority {
		if !eligible(k, req) {
			continue
		}
		if draw < odds.threshold(k) {
			return k, true
		}
	}
	return "", false
}

func eligible(k Kind, req Request) bool {
	switch k {
	case KindRevelation:
		return req.QuestionKind == game.KindMultipleChoice
	case KindReversal:
		return req.PlayerCount >= 2
	}
	return true
}

// Check consumes one draw unless the guard blocks it and resolves the card
// that fires. A revelation that cannot be applied safely is dropped.
func (r *Resolver) Check(g Guard, req Request) (Draw, bool) {
	if g.Blocked() {
		return Draw{}, false
	}

	kind, ok := r.Pick(r.rng.Float64(), req)
	if !ok {
		return Draw{}, false
	}

	d := Draw{Kind: kind}
	switch kind {
	case KindRevelation:
		eliminated, err := r.Eliminate(req.CorrectAnswer, req.Mapping)
		if err != nil {
			return Draw{}, false
		}
		d.Eliminated = eliminated
	case KindMiracle:
		e := game.Miracle()
		d.Effect = &e
	case KindReversal:
		e := game.Reversal()
		d.Effect = &e
	case KindBlessing:
		e := game.Delta(1)
		d.Effect = &e
	case KindTrial:
		penalty := 1
		if req.Tier == game.TierHard {
			penalty += r.rng.IntN(2)
		}
		e := game.Delta(-penalty)
		d.Effect = &e
	}

	delta := 0
	if d.Effect != nil {
		delta = d.Effect.Delta
	}
	d.Info = Describe(kind, delta)

	r.logger.Debug().
		Str("card", string(kind)).
		Str("tier", string(req.Tier)).
		Msg("card fired")
	return d, true
}

// Eliminate picks RevelationCount wrong display positions uniformly at random.
// The display position of the correct answer is never returned.
func (r *Resolver) Eliminate(correct int, mapping shuffle.Mapping) ([]int, error) {
	if err := mapping.Validate(len(mapping)); err != nil {
		r.logger.Error().Err(err).Msg("revelation aborted")
		return nil, fmt.Errorf("revelation: %w", err)
	}
	correctAt, ok := mapping.Display(correct)
	if !ok {
		r.logger.Error().Int("correct", correct).Msg("revelation aborted: correct answer not displayed")
		return nil, ErrUnsafeElimination
	}

	wrong := make([]int, 0, len(mapping))
	for d, c := range mapping {
		if c != correct {
			wrong = append(wrong, d)
		}
	}
	if len(wrong) < RevelationCount {
		r.logger.Error().Int("wrong", len(wrong)).Msg("revelation aborted")
		return nil, ErrTooFewWrong
	}

	random.Shuffle(r.rng, len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	picked := append([]int(nil), wrong[:RevelationCount]...)
	for _, d := range picked {
		if d == correctAt {
			r.logger.Error().Int("position", d).Msg("revelation aborted: correct answer selected")
			return nil, ErrUnsafeElimination
		}
	}
	sort.Ints(picked)
	return picked, nil
}
