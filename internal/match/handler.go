package match

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/hotseat-trivia/internal/server"
	"github.com/gokatarajesh/hotseat-trivia/internal/setup"
	httperrors "github.com/gokatarajesh/hotseat-trivia/pkg/http/errors"
	ws "github.com/gokatarajesh/hotseat-trivia/pkg/http/ws"
)

// Handler attaches screens to the table over WebSocket. Every change of the
// controller is broadcast as a game_snapshot; errors go back to the sender.
type Handler struct {
	controller *Controller
	hub        *ws.Hub
	logger     zerolog.Logger
}

// NewHandler creates the WebSocket handler and subscribes it to the controller.
func NewHandler(controller *Controller, hub *ws.Hub, logger zerolog.Logger) *Handler {
	h := &Handler{
		controller: controller,
		hub:        hub,
		logger:     logger.With().Str("component", "match_ws").Logger(),
	}
	controller.Subscribe(h.broadcast)
	return h
}

// HandleWebSocket upgrades the request and serves the connection until it closes.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	wsConn := ws.NewConnection(conn, h.logger)
	id := h.hub.Register(wsConn)
	go wsConn.WritePump()

	if err := h.send(id, ws.TypeGameSnapshot, h.controller.View(), ""); err != nil {
		h.logger.Warn().Err(err).Msg("initial snapshot not delivered")
	}

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(id, msg)
	})
	h.hub.Unregister(id)
}

func (h *Handler) broadcast(v View) {
	msg, err := ws.NewMessage(ws.TypeGameSnapshot, v, "")
	if err != nil {
		h.logger.Error().Err(err).Msg("encode snapshot")
		return
	}
	_ = h.hub.Broadcast(msg)
}

// handleMessage routes incoming WebSocket messages.
func (h *Handler) handleMessage(id uuid.UUID, msg ws.Message) error {
	var err error
	switch msg.Type {
	case ws.TypeStartGame:
		var req ws.StartGamePayload
		if !h.decode(id, msg, &req) {
			return nil
		}
		sr := setup.Request{TargetScore: req.TargetScore}
		for _, p := range req.Players {
			sr.Players = append(sr.Players, setup.PlayerInput{Name: p.Name, Tier: p.Tier})
		}
		_, err = h.controller.Start(sr)
	case ws.TypeSubmitAnswer:
		var req ws.SubmitAnswerPayload
		if !h.decode(id, msg, &req) {
			return nil
		}
		_, err = h.controller.SubmitAnswer(req.Position)
	case ws.TypeResolveOffer:
		var req ws.ResolveOfferPayload
		if !h.decode(id, msg, &req) {
			return nil
		}
		_, err = h.controller.ResolveOffer(req.TargetPlayerID)
	case ws.TypeDismissCard:
		_, err = h.controller.DismissCard()
	case ws.TypeNextQuestion:
		_, err = h.controller.NextQuestion()
	case ws.TypeRestartGame:
		_, err = h.controller.Restart()
	case ws.TypeResetGame:
		_, err = h.controller.Reset()
	case ws.TypeRequestSnapshot:
		return h.send(id, ws.TypeGameSnapshot, h.controller.View(), msg.RequestID)
	case ws.TypePing:
		return h.send(id, ws.TypePong, struct{}{}, msg.RequestID)
	default:
		return h.sendError(id, msg.RequestID, ws.ErrorPayload{
			Code:    httperrors.ErrCodeUnknownMessageType,
			Message: fmt.Sprintf("Unknown message type: %s", msg.Type),
		})
	}

	if err != nil {
		e := classify(err)
		if e.Status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("type", msg.Type).Msg("game command failed")
		}
		return h.sendError(id, msg.RequestID, ws.ErrorPayload{Code: e.Code, Message: e.Message, Field: e.Field})
	}
	return nil
}

// decode reports a malformed payload to the sender and returns false.
func (h *Handler) decode(id uuid.UUID, msg ws.Message, dst any) bool {
	if len(msg.Payload) == 0 {
		return true
	}
	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		sendErr := h.sendError(id, msg.RequestID, ws.ErrorPayload{
			Code:    httperrors.ErrCodeInvalidPayload,
			Message: fmt.Sprintf("Invalid %s payload", msg.Type),
		})
		if sendErr != nil {
			h.logger.Warn().Err(sendErr).Msg("error not delivered")
		}
		return false
	}
	return true
}

func (h *Handler) send(id uuid.UUID, msgType string, payload any, requestID string) error {
	msg, err := ws.NewMessage(msgType, payload, requestID)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msgType, err)
	}
	return h.hub.SendTo(id, msg)
}

func (h *Handler) sendError(id uuid.UUID, requestID string, payload ws.ErrorPayload) error {
	return h.send(id, ws.TypeError, payload, requestID)
}
