package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPhase      = errors.New("transition not allowed in current phase")
	ErrNoPlayers         = errors.New("at least one player is required")
	ErrOfferPending      = errors.New("shared bonus offer is pending")
	ErrNoPendingOffer    = errors.New("no shared bonus offer is pending")
	ErrNoCurrentQuestion = errors.New("no question is being answered")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrInvalidEffect     = errors.New("invalid card effect")
	ErrDuplicateQuestion = errors.New("question already used by player")
)

// DuplicateQuestionError is returned when a question is set twice for the same
// player. It matches ErrDuplicateQuestion with errors.Is.
type DuplicateQuestionError struct {
	PlayerID   int
	QuestionID int
}

func (e *DuplicateQuestionError) Error() string {
	return fmt.Sprintf("question %d already used by player %d", e.QuestionID, e.PlayerID)
}

func (e *DuplicateQuestionError) Is(target error) bool {
	return target == ErrDuplicateQuestion
}
