package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeStartGame       = "start_game"
	TypeSubmitAnswer    = "submit_answer"
	TypeResolveOffer    = "resolve_offer"
	TypeDismissCard     = "dismiss_card"
	TypeNextQuestion    = "next_question"
	TypeRestartGame     = "restart_game"
	TypeResetGame       = "reset_game"
	TypeRequestSnapshot = "request_snapshot"

	// Server -> Client
	TypeGameSnapshot = "game_snapshot"
	TypeError        = "error"

	TypePing = "ping"
	TypePong = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client Messages (incoming)

type StartGamePayload struct {
	TargetScore int             `json:"target_score"`
	Players     []PlayerPayload `json:"players"`
}

type PlayerPayload struct {
	Name string `json:"name"`
	Tier string `json:"tier"`
}

type SubmitAnswerPayload struct {
	Position int `json:"position"`
}

// ResolveOfferPayload skips the bonus when TargetPlayerID is null.
type ResolveOfferPayload struct {
	TargetPlayerID *int `json:"target_player_id"`
}

// Server Messages (outgoing)

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
