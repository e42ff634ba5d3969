package match

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/setup"
	httperrors "github.com/gokatarajesh/hotseat-trivia/pkg/http/errors"
)

// Reloader refreshes the question bank and returns the new size.
type Reloader interface {
	ReloadNow(ctx context.Context) (int, error)
}

// BankReader exposes the loaded question bank.
type BankReader interface {
	Questions() []game.Question
	LoadedAt() time.Time
}

type AnswerRequest struct {
	Position *int `json:"position"`
}

type OfferRequest struct {
	TargetPlayerID *int `json:"target_player_id"`
}

// BankStats is the body of GET /v1/questions.
type BankStats struct {
	Total    int               `json:"total"`
	ByTier   map[game.Tier]int `json:"by_tier"`
	LoadedAt time.Time         `json:"loaded_at"`
}

// HTTPHandlers provides REST endpoints for the table.
type HTTPHandlers struct {
	controller *Controller
	reloader   Reloader
	bank       BankReader
	logger     zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for game endpoints. reloader and bank
// may be nil.
func NewHTTPHandlers(controller *Controller, reloader Reloader, bank BankReader, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		controller: controller,
		reloader:   reloader,
		bank:       bank,
		logger:     logger.With().Str("component", "match_http").Logger(),
	}
}

// Routes returns every game endpoint keyed by path.
func (h *HTTPHandlers) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/game":              h.GetGame,
		"/v1/game/start":        h.StartGame,
		"/v1/game/answer":       h.SubmitAnswer,
		"/v1/game/offer":        h.ResolveOffer,
		"/v1/game/card/dismiss": h.DismissCard,
		"/v1/game/next":         h.NextQuestion,
		"/v1/game/restart":      h.RestartGame,
		"/v1/game/reset":        h.ResetGame,
		"/v1/questions":         h.QuestionStats,
		"/v1/questions/reload":  h.ReloadQuestions,
	}
}

// GetGame handles GET /v1/game
func (h *HTTPHandlers) GetGame(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	h.respondJSON(w, http.StatusOK, h.controller.View())
}

// StartGame handles POST /v1/game/start
func (h *HTTPHandlers) StartGame(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req setup.Request
	if !decode(w, r, &req) {
		return
	}
	view, err := h.controller.Start(req)
	h.respond(w, view, err)
}

// SubmitAnswer handles POST /v1/game/answer
func (h *HTTPHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req AnswerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Position == nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "position is required", "position")
		return
	}
	view, err := h.controller.SubmitAnswer(*req.Position)
	h.respond(w, view, err)
}

// ResolveOffer handles POST /v1/game/offer
func (h *HTTPHandlers) ResolveOffer(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req OfferRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.controller.ResolveOffer(req.TargetPlayerID)
	h.respond(w, view, err)
}

// DismissCard handles POST /v1/game/card/dismiss
func (h *HTTPHandlers) DismissCard(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	view, err := h.controller.DismissCard()
	h.respond(w, view, err)
}

// NextQuestion handles POST /v1/game/next
func (h *HTTPHandlers) NextQuestion(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	view, err := h.controller.NextQuestion()
	h.respond(w, view, err)
}

// RestartGame handles POST /v1/game/restart
func (h *HTTPHandlers) RestartGame(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	view, err := h.controller.Restart()
	h.respond(w, view, err)
}

// ResetGame handles POST /v1/game/reset
func (h *HTTPHandlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	view, err := h.controller.Reset()
	h.respond(w, view, err)
}

// QuestionStats handles GET /v1/questions
func (h *HTTPHandlers) QuestionStats(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	if h.bank == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeFeatureNotAvailable, "question bank not configured")
		return
	}
	stats := BankStats{
		ByTier:   make(map[game.Tier]int, len(game.Tiers)),
		LoadedAt: h.bank.LoadedAt(),
	}
	for _, tier := range game.Tiers {
		stats.ByTier[tier] = 0
	}
	for _, q := range h.bank.Questions() {
		stats.Total++
		stats.ByTier[q.Tier]++
	}
	h.respondJSON(w, http.StatusOK, stats)
}

// ReloadQuestions handles POST /v1/questions/reload
func (h *HTTPHandlers) ReloadQuestions(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if h.reloader == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeFeatureNotAvailable, "question reload not configured")
		return
	}
	n, err := h.reloader.ReloadNow(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("question reload failed")
		e := classify(err)
		if e.Status == http.StatusInternalServerError {
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeReloadFailed, err.Error())
			return
		}
		httperrors.RespondError(w, e.Status, e.Code, e.Message)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]int{"questions": n})
}

func (h *HTTPHandlers) respond(w http.ResponseWriter, view View, err error) {
	if err != nil {
		e := classify(err)
		if e.Status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("game request failed")
			httperrors.RespondInternalError(w, e.Message)
			return
		}
		if e.Field != "" {
			httperrors.RespondValidationError(w, e.Code, e.Message, e.Field)
			return
		}
		if e.Status == http.StatusConflict {
			httperrors.RespondConflict(w, e.Code, e.Message)
			return
		}
		httperrors.RespondError(w, e.Status, e.Code, e.Message)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// respondJSON writes a JSON response.
func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	httperrors.RespondMethodNotAllowed(w, method)
	return false
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return false
	}
	return true
}
