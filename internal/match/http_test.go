package match

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/question"
	httperrors "github.com/gokatarajesh/hotseat-trivia/pkg/http/errors"
)

type stubReloader struct {
	n   int
	err error
}

func (s stubReloader) ReloadNow(context.Context) (int, error) { return s.n, s.err }

type stubBank []game.Question

var bankLoadedAt = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

func (b stubBank) Questions() []game.Question { return b }
func (b stubBank) LoadedAt() time.Time        { return bankLoadedAt }

func serve(t *testing.T, h http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) httperrors.ErrorResponse {
	t.Helper()
	var resp httperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func newHandlers(t *testing.T, reloader Reloader, bank BankReader) (*HTTPHandlers, *fixture) {
	f := newFixture(t)
	return NewHTTPHandlers(f.c, reloader, bank, f.c.logger), f
}

const startBody = `{"target_score": 5, "players": [{"name": "Ana", "tier": "moyen"}, {"name": "Ben", "tier": "hard"}]}`

func TestStartGameEndpoint(t *testing.T) {
	h, _ := newHandlers(t, nil, nil)

	rec := serve(t, h.StartGame, http.MethodPost, startBody)
	require.Equal(t, http.StatusOK, rec.Code)
	var v View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	assert.Equal(t, game.PhaseInProgress, v.Session.Phase)
	assert.Equal(t, game.TierMedium, v.Session.Players[0].Tier)
	assert.NotNil(t, v.Question)

	rec = serve(t, h.GetGame, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartGameValidation(t *testing.T) {
	h, _ := newHandlers(t, nil, nil)

	rec := serve(t, h.StartGame, http.MethodPost, `{"target_score": 99, "players": [{"name": "Ana"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := errorCode(t, rec)
	assert.Equal(t, httperrors.ErrCodeValidationFailed, resp.Error)
	assert.Equal(t, "target_score", resp.Field)

	rec = serve(t, h.StartGame, http.MethodPost, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidRequest, errorCode(t, rec).Error)

	rec = serve(t, h.StartGame, http.MethodGet, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestGameCommandErrors(t *testing.T) {
	h, _ := newHandlers(t, nil, nil)

	rec := serve(t, h.SubmitAnswer, http.MethodPost, `{"position": 0}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidPhase, errorCode(t, rec).Error)

	require.Equal(t, http.StatusOK, serve(t, h.StartGame, http.MethodPost, startBody).Code)

	rec = serve(t, h.SubmitAnswer, http.MethodPost, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeMissingField, errorCode(t, rec).Error)

	rec = serve(t, h.SubmitAnswer, http.MethodPost, `{"position": 7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidAnswer, errorCode(t, rec).Error)

	rec = serve(t, h.ResolveOffer, http.MethodPost, `{"target_player_id": 2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeNoPendingOffer, errorCode(t, rec).Error)

	rec = serve(t, h.DismissCard, http.MethodPost, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeNoActiveCard, errorCode(t, rec).Error)
}

func TestAnswerEndpointShowsFeedback(t *testing.T) {
	h, f := newHandlers(t, nil, nil)
	require.Equal(t, http.StatusOK, serve(t, h.StartGame, http.MethodPost, startBody).Code)

	body, err := json.Marshal(map[string]int{"position": f.correctDisplay(t)})
	require.NoError(t, err)
	rec := serve(t, h.SubmitAnswer, http.MethodPost, string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var v View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	require.NotNil(t, v.Feedback)
	assert.True(t, v.Feedback.Correct)
}

func TestRestartAndResetEndpoints(t *testing.T) {
	h, _ := newHandlers(t, nil, nil)

	rec := serve(t, h.RestartGame, http.MethodPost, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, http.StatusOK, serve(t, h.StartGame, http.MethodPost, startBody).Code)
	assert.Equal(t, http.StatusOK, serve(t, h.RestartGame, http.MethodPost, "").Code)
	assert.Equal(t, http.StatusOK, serve(t, h.NextQuestion, http.MethodPost, "").Code)

	rec = serve(t, h.ResetGame, http.MethodPost, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var v View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	assert.Equal(t, game.PhaseSetup, v.Session.Phase)
}

func TestQuestionStatsEndpoint(t *testing.T) {
	bank := stubBank{
		{ID: 1, Tier: game.TierEasy},
		{ID: 2, Tier: game.TierEasy},
		{ID: 3, Tier: game.TierHard},
	}
	h, _ := newHandlers(t, nil, bank)

	rec := serve(t, h.QuestionStats, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats BankStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[game.Tier]int{game.TierEasy: 2, game.TierMedium: 0, game.TierHard: 1}, stats.ByTier)
	assert.True(t, bankLoadedAt.Equal(stats.LoadedAt))

	h, _ = newHandlers(t, nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, h.QuestionStats, http.MethodGet, "").Code)
}

func TestReloadQuestionsEndpoint(t *testing.T) {
	cases := []struct {
		name     string
		reloader Reloader
		status   int
		code     string
	}{
		{"ok", stubReloader{n: 12}, http.StatusOK, ""},
		{"empty bank", stubReloader{err: question.ErrEmptyBank}, http.StatusUnprocessableEntity, httperrors.ErrCodeQuestionBankEmpty},
		{"source down", stubReloader{err: errors.New("connection refused")}, http.StatusBadGateway, httperrors.ErrCodeReloadFailed},
		{"not configured", nil, http.StatusServiceUnavailable, httperrors.ErrCodeFeatureNotAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newHandlers(t, tc.reloader, nil)
			rec := serve(t, h.ReloadQuestions, http.MethodPost, "")
			assert.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, errorCode(t, rec).Error)
				return
			}
			assert.JSONEq(t, `{"questions":12}`, rec.Body.String())
		})
	}
}

func TestRoutesCoverEveryEndpoint(t *testing.T) {
	h, _ := newHandlers(t, nil, nil)
	routes := h.Routes()
	for _, p := range []string{"/v1/game", "/v1/game/start", "/v1/game/answer", "/v1/game/offer", "/v1/game/card/dismiss", "/v1/game/next", "/v1/game/restart", "/v1/game/reset", "/v1/questions", "/v1/questions/reload"} {
		assert.Contains(t, routes, p)
	}
}
