package ws

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesEveryConnection(t *testing.T) {
	connected, disconnected := 0, 0
	hub := NewHub(zerolog.Nop(), Hooks{
		OnConnect:    func() { connected++ },
		OnDisconnect: func() { disconnected++ },
	})

	a := NewConnection(nil, zerolog.Nop())
	b := NewConnection(nil, zerolog.Nop())
	idA := hub.Register(a)
	hub.Register(b)
	assert.Equal(t, 2, hub.Count())
	assert.Equal(t, 2, connected)

	msg, err := NewMessage(TypeGameSnapshot, map[string]int{"round": 1}, "")
	require.NoError(t, err)
	require.NoError(t, hub.Broadcast(msg))

	for _, c := range []*Connection{a, b} {
		got := <-c.sendCh
		assert.Equal(t, TypeGameSnapshot, got.Type)
		assert.JSONEq(t, `{"round":1}`, string(got.Payload))
	}

	hub.Unregister(idA)
	assert.Equal(t, 1, hub.Count())
	assert.Equal(t, 1, disconnected)
	assert.ErrorIs(t, a.Send(msg), ErrConnectionClosed)

	hub.CloseAll()
	assert.Equal(t, 0, hub.Count())
	assert.Equal(t, 2, disconnected)
}

func TestSendToUnknownConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop(), Hooks{})
	assert.ErrorIs(t, hub.SendTo(uuid.New(), Message{Type: TypePong}), ErrConnectionNotFound)
	hub.Unregister(uuid.New())
}

func TestSendQueueFull(t *testing.T) {
	c := NewConnection(nil, zerolog.Nop())
	for i := 0; i < sendQueue; i++ {
		require.NoError(t, c.Send(Message{Type: TypePing}))
	}
	assert.ErrorIs(t, c.Send(Message{Type: TypePing}), ErrSendQueueFull)
	c.Close()
	c.Close()
}

func TestMessagePayloadShapes(t *testing.T) {
	var offer ResolveOfferPayload
	require.NoError(t, json.Unmarshal([]byte(`{"target_player_id": null}`), &offer))
	assert.Nil(t, offer.TargetPlayerID)

	require.NoError(t, json.Unmarshal([]byte(`{"target_player_id": 2}`), &offer))
	require.NotNil(t, offer.TargetPlayerID)
	assert.Equal(t, 2, *offer.TargetPlayerID)
}
