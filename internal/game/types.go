package game

import (
	"fmt"
	"strings"
)

// Tier is a player's difficulty level; it selects the question pool, the shuffle
// bias and the card probability table.
type Tier string

// Tier constants.
const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers lists every tier in ascending difficulty.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

var tierAliases = map[string]Tier{
	"easy":      TierEasy,
	"medium":    TierMedium,
	"hard":      TierHard,
	"facile":    TierEasy,
	"moyen":     TierMedium,
	"difficile": TierHard,
}

// ParseTier normalizes a tier name. French level names are accepted.
func ParseTier(s string) (Tier, error) {
	if t, ok := tierAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t == TierEasy || t == TierMedium || t == TierHard
}

// QuestionKind distinguishes multiple-choice from true/false questions.
type QuestionKind string

// QuestionKind constants.
const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindTrueFalse      QuestionKind = "true_false"
)

// AnswerCount returns how many answers a question of this kind carries.
func (k QuestionKind) AnswerCount() int {
	if k == KindTrueFalse {
		return 2
	}
	return 4
}

// Question is an immutable bank record.
type Question struct {
	ID            int          `json:"id"`
	Kind          QuestionKind `json:"kind"`
	Prompt        string       `json:"prompt"`
	Answers       []string     `json:"answers"`
	CorrectAnswer int          `json:"correct_answer"`
	Tier          Tier         `json:"tier"`
}

// Validate checks the structural rules of a question record.
func (q Question) Validate() error {
	if q.Kind != KindMultipleChoice && q.Kind != KindTrueFalse {
		return fmt.Errorf("question %d: unknown kind %q", q.ID, q.Kind)
	}
	if want := q.Kind.AnswerCount(); len(q.Answers) != want {
		return fmt.Errorf("question %d: %s needs %d answers, got %d", q.ID, q.Kind, want, len(q.Answers))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Answers) {
		return fmt.Errorf("question %d: correct answer %d out of range", q.ID, q.CorrectAnswer)
	}
	if !q.Tier.Valid() {
		return fmt.Errorf("question %d: unknown tier %q", q.ID, q.Tier)
	}
	return nil
}

// Player is a seat at the table.
type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Tier  Tier   `json:"tier"`
	Score int    `json:"score"`
}

// Phase is the top-level state of a session.
type Phase uint8

const (
	PhaseSetup Phase = iota + 1
	PhaseInProgress
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseSetup, PhaseInProgress, PhaseFinished} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// EffectKind identifies how a card mutates scores.
type EffectKind uint8

const (
	// EffectDelta adds Delta to the current player's score.
	EffectDelta EffectKind = iota + 1
	// EffectMiracle lifts the current player to one point below the target.
	EffectMiracle
	// EffectReversal swaps the top and bottom scores.
	EffectReversal
)

func (k EffectKind) String() string {
	switch k {
	case EffectDelta:
		return "delta"
	case EffectMiracle:
		return "miracle"
	case EffectReversal:
		return "reversal"
	default:
		return "unknown"
	}
}

// CardEffect is an immediate score mutation outside the answer flow.
type CardEffect struct {
	Kind  EffectKind
	Delta int
}

// Delta builds an additive effect.
func Delta(n int) CardEffect { return CardEffect{Kind: EffectDelta, Delta: n} }

// Miracle builds the jump-to-target-minus-one effect.
func Miracle() CardEffect { return CardEffect{Kind: EffectMiracle} }

// Reversal builds the top/bottom swap effect.
func Reversal() CardEffect { return CardEffect{Kind: EffectReversal} }
