package match

import (
	"errors"
	"net/http"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/question"
	"github.com/gokatarajesh/hotseat-trivia/internal/setup"
	httperrors "github.com/gokatarajesh/hotseat-trivia/pkg/http/errors"
)

// apiError is how a controller error is reported to clients.
type apiError struct {
	Status  int
	Code    string
	Message string
	Field   string
}

func classify(err error) apiError {
	var verr *setup.ValidationError
	if errors.As(err, &verr) {
		return apiError{Status: http.StatusBadRequest, Code: httperrors.ErrCodeValidationFailed, Message: verr.Message, Field: verr.Field}
	}

	table := []struct {
		target error
		status int
		code   string
	}{
		{game.ErrInvalidPhase, http.StatusConflict, httperrors.ErrCodeInvalidPhase},
		{game.ErrOfferPending, http.StatusConflict, httperrors.ErrCodeOfferPending},
		{game.ErrNoPendingOffer, http.StatusConflict, httperrors.ErrCodeNoPendingOffer},
		{game.ErrNoCurrentQuestion, http.StatusConflict, httperrors.ErrCodeNoCurrentQuestion},
		{game.ErrDuplicateQuestion, http.StatusConflict, httperrors.ErrCodeDuplicateQuestion},
		{game.ErrUnknownPlayer, http.StatusBadRequest, httperrors.ErrCodeUnknownPlayer},
		{game.ErrNoPlayers, http.StatusBadRequest, httperrors.ErrCodeValidationFailed},
		{ErrCardInFlight, http.StatusConflict, httperrors.ErrCodeCardInFlight},
		{ErrAnswerInFlight, http.StatusConflict, httperrors.ErrCodeAnswerInFlight},
		{ErrNoActiveCard, http.StatusConflict, httperrors.ErrCodeNoActiveCard},
		{ErrInvalidAnswer, http.StatusBadRequest, httperrors.ErrCodeInvalidAnswer},
		{question.ErrExhaustedPool, http.StatusConflict, httperrors.ErrCodeExhaustedPool},
		{question.ErrEmptyBank, http.StatusUnprocessableEntity, httperrors.ErrCodeQuestionBankEmpty},
	}
	for _, e := range table {
		if errors.Is(err, e.target) {
			return apiError{Status: e.status, Code: e.code, Message: err.Error()}
		}
	}
	return apiError{Status: http.StatusInternalServerError, Code: httperrors.ErrCodeInternalError, Message: "internal error"}
}
