package setup

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
)

// Limits of a table.
const (
	MinPlayers     = 1
	MaxPlayers     = 8
	MinTargetScore = 5
	MaxTargetScore = 50
	MaxNameLength  = 15
)

// PlayerInput is one seat as typed on the setup screen.
type PlayerInput struct {
	Name string `json:"name"`
	Tier string `json:"tier"`
}

// Request is the complete setup form.
type Request struct {
	TargetScore int           `json:"target_score"`
	Players     []PlayerInput `json:"players"`
}

// ValidationError points at the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the form and returns players ready for StartGame, with ids
// 1..n in seat order.
func Validate(req Request) ([]game.Player, error) {
	n := len(req.Players)
	if n < MinPlayers || n > MaxPlayers {
		return nil, invalid("players", "between %d and %d players required, got %d", MinPlayers, MaxPlayers, n)
	}
	if req.TargetScore < MinTargetScore || req.TargetScore > MaxTargetScore {
		return nil, invalid("target_score", "must be between %d and %d", MinTargetScore, MaxTargetScore)
	}

	players := make([]game.Player, 0, n)
	for i, in := range req.Players {
		name := strings.TrimSpace(in.Name)
		field := fmt.Sprintf("players[%d]", i)
		if name == "" {
			return nil, invalid(field+".name", "name is required")
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return nil, invalid(field+".name", "at most %d characters", MaxNameLength)
		}

		tier := game.TierEasy
		if in.Tier != "" {
			t, err := game.ParseTier(in.Tier)
			if err != nil {
				return nil, invalid(field+".tier", "%s", err.Error())
			}
			tier = t
		}

		players = append(players, game.Player{ID: i + 1, Name: name, Tier: tier})
	}
	return players, nil
}
