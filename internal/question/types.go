package question

import (
	"fmt"
	"strings"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
)

// Type values used by the JSON bank.
const (
	TypeMCQ       = "QCM"
	TypeTrueFalse = "VF"
)

// Record is a question as stored in the JSON bank. Older banks carry the
// French level instead of difficulty.
type Record struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correctAnswer"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Level         string   `json:"level,omitempty"`
}

// Normalize converts a record into a validated game question.
func (r Record) Normalize() (game.Question, error) {
	kind, err := parseKind(r.Type)
	if err != nil {
		return game.Question{}, fmt.Errorf("question %d: %w", r.ID, err)
	}

	tier, err := game.ParseTier(r.Difficulty)
	if err != nil {
		if tier, err = game.ParseTier(r.Level); err != nil {
			return game.Question{}, fmt.Errorf("question %d: no usable difficulty (%q, %q)", r.ID, r.Difficulty, r.Level)
		}
	}

	q := game.Question{
		ID:            r.ID,
		Kind:          kind,
		Prompt:        strings.TrimSpace(r.Question),
		Answers:       append([]string(nil), r.Answers...),
		CorrectAnswer: r.CorrectAnswer,
		Tier:          tier,
	}
	if q.Prompt == "" {
		return game.Question{}, fmt.Errorf("question %d: empty prompt", r.ID)
	}
	if err := q.Validate(); err != nil {
		return game.Question{}, err
	}
	return q, nil
}

func parseKind(s string) (game.QuestionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qcm", "mcq", "multiple", "multiple_choice":
		return game.KindMultipleChoice, nil
	case "vf", "boolean", "true_false":
		return game.KindTrueFalse, nil
	}
	return "", fmt.Errorf("unknown question type %q", s)
}
