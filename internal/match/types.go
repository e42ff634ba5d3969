package match

import (
	"errors"
	"time"

	"github.com/gokatarajesh/hotseat-trivia/internal/cards"
	"github.com/gokatarajesh/hotseat-trivia/internal/game"
)

var (
	ErrCardInFlight   = errors.New("a card is being shown")
	ErrAnswerInFlight = errors.New("an answer is already being scored")
	ErrNoActiveCard   = errors.New("no card is being shown")
	ErrInvalidAnswer  = errors.New("answer position is not selectable")
)

// Timings are the presentation delays.
type Timings struct {
	CardCheckDelay  time.Duration // after a question is shown
	CardDisplay     time.Duration // card auto-dismiss
	CardLock        time.Duration // no answer or card check while held
	RevelationDelay time.Duration // eliminations appear
	FeedbackCorrect time.Duration // before a correct answer is scored
	FeedbackWrong   time.Duration // before a wrong answer is scored
}

// DefaultTimings returns the production delays.
func DefaultTimings() Timings {
	return Timings{
		CardCheckDelay:  100 * time.Millisecond,
		CardDisplay:     3500 * time.Millisecond,
		CardLock:        4 * time.Second,
		RevelationDelay: 3600 * time.Millisecond,
		FeedbackCorrect: 2 * time.Second,
		FeedbackWrong:   1500 * time.Millisecond,
	}
}

func (t Timings) withDefaults() Timings {
	def := DefaultTimings()
	if t.CardCheckDelay <= 0 {
		t.CardCheckDelay = def.CardCheckDelay
	}
	if t.CardDisplay <= 0 {
		t.CardDisplay = def.CardDisplay
	}
	if t.CardLock <= 0 {
		t.CardLock = def.CardLock
	}
	if t.RevelationDelay <= 0 {
		t.RevelationDelay = def.RevelationDelay
	}
	if t.FeedbackCorrect <= 0 {
		t.FeedbackCorrect = def.FeedbackCorrect
	}
	if t.FeedbackWrong <= 0 {
		t.FeedbackWrong = def.FeedbackWrong
	}
	return t
}

// QuestionView is the current question in display order. The correct answer
// is not included.
type QuestionView struct {
	ID         int               `json:"id"`
	Kind       game.QuestionKind `json:"kind"`
	Prompt     string            `json:"prompt"`
	Answers    []string          `json:"answers"`
	Eliminated []int             `json:"eliminated"`
}

// Feedback is shown between an answer and its scoring.
type Feedback struct {
	Selected      int  `json:"selected"`
	Correct       bool `json:"correct"`
	CorrectAnswer int  `json:"correct_answer"`
}

// View is everything the presentation needs to render the table.
type View struct {
	Generation      string        `json:"generation"`
	Session         game.Session  `json:"session"`
	Question        *QuestionView `json:"question,omitempty"`
	Card            *cards.Info   `json:"card,omitempty"`
	CardResolving   bool          `json:"card_resolving"`
	Feedback        *Feedback     `json:"feedback,omitempty"`
	OfferCandidates []game.Player `json:"offer_candidates,omitempty"`
	Blocked         string        `json:"blocked,omitempty"`
}
