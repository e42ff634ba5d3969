package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRespondValidationErrorCarriesField(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondValidationError(rec, ErrCodeValidationFailed, "target score must be positive", "target_score")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, ErrorResponse{
		Error:   ErrCodeValidationFailed,
		Message: "target score must be positive",
		Field:   "target_score",
	}, decodeBody(t, rec))
}

func TestRespondConflict(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, ErrCodeOfferPending, "offer pending")

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, ErrCodeOfferPending, body.Error)
	assert.Empty(t, body.Field)
}

func TestRespondMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondMethodNotAllowed(rec, http.MethodPost)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	assert.Equal(t, ErrCodeMethodNotAllowed, decodeBody(t, rec).Error)
}
