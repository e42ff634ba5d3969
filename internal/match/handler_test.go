package match

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	httperrors "github.com/gokatarajesh/hotseat-trivia/pkg/http/errors"
	ws "github.com/gokatarajesh/hotseat-trivia/pkg/http/ws"
)

func dial(t *testing.T) (*websocket.Conn, *fixture) {
	t.Helper()
	f := newFixture(t)
	hub := ws.NewHub(zerolog.Nop(), ws.Hooks{})
	h := NewHandler(f.c, hub, zerolog.Nop())

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, f
}

func read(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func write(t *testing.T, conn *websocket.Conn, msgType string, payload any, requestID string) {
	t.Helper()
	msg, err := ws.NewMessage(msgType, payload, requestID)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func TestWebSocketSnapshotOnConnect(t *testing.T) {
	conn, _ := dial(t)

	msg := read(t, conn)
	assert.Equal(t, ws.TypeGameSnapshot, msg.Type)
	var v View
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	assert.Equal(t, game.PhaseSetup, v.Session.Phase)
}

func TestWebSocketCommandsBroadcastSnapshots(t *testing.T) {
	conn, _ := dial(t)
	read(t, conn)

	write(t, conn, ws.TypeStartGame, ws.StartGamePayload{
		TargetScore: 5,
		Players:     []ws.PlayerPayload{{Name: "Ana", Tier: "easy"}, {Name: "Ben", Tier: "hard"}},
	}, "r1")

	msg := read(t, conn)
	require.Equal(t, ws.TypeGameSnapshot, msg.Type)
	var v View
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	assert.Equal(t, game.PhaseInProgress, v.Session.Phase)
	require.Len(t, v.Session.Players, 2)
	assert.NotNil(t, v.Question)
}

func TestWebSocketErrorsGoToSender(t *testing.T) {
	conn, _ := dial(t)
	read(t, conn)

	write(t, conn, ws.TypeDismissCard, nil, "r2")
	msg := read(t, conn)
	require.Equal(t, ws.TypeError, msg.Type)
	assert.Equal(t, "r2", msg.RequestID)
	var e ws.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &e))
	assert.Equal(t, httperrors.ErrCodeNoActiveCard, e.Code)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypeSubmitAnswer, Payload: json.RawMessage(`"oops"`)}))
	msg = read(t, conn)
	require.NoError(t, json.Unmarshal(msg.Payload, &e))
	assert.Equal(t, httperrors.ErrCodeInvalidPayload, e.Code)

	write(t, conn, "teleport", nil, "")
	msg = read(t, conn)
	require.NoError(t, json.Unmarshal(msg.Payload, &e))
	assert.Equal(t, httperrors.ErrCodeUnknownMessageType, e.Code)
}

func TestWebSocketPingAndSnapshotRequest(t *testing.T) {
	conn, _ := dial(t)
	read(t, conn)

	write(t, conn, ws.TypePing, nil, "p1")
	msg := read(t, conn)
	assert.Equal(t, ws.TypePong, msg.Type)
	assert.Equal(t, "p1", msg.RequestID)

	write(t, conn, ws.TypeRequestSnapshot, nil, "s1")
	msg = read(t, conn)
	assert.Equal(t, ws.TypeGameSnapshot, msg.Type)
	assert.Equal(t, "s1", msg.RequestID)
}
