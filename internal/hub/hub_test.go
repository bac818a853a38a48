package hub

import (
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"edugame/backend/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewHub(l)
}

func recv(t *testing.T, c *Client) map[string]any {
	t.Helper()
	select {
	case data := <-c.Messages():
		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		return got
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("client %s did not receive a message", c.ID)
		return nil
	}
}

func recvNone(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Messages():
		t.Fatalf("client %s should not receive anything, got %s", c.ID, data)
	default:
	}
}

func TestBroadcastIsScopedToLobby(t *testing.T) {
	h := newTestHub()
	inL1 := NewClient("a", 4)
	alsoL1 := NewClient("b", 4)
	inL2 := NewClient("c", 4)

	h.Register(1, inL1)
	h.Register(1, alsoL1)
	h.Register(2, inL2)

	ev := ReadyStatusChanged{LobbyID: 1, Participant: models.Participant{ID: 9, LobbyID: 1, UserID: 3, IsReady: true}, AllReady: true}
	assert.Equal(t, 2, h.Broadcast(1, ev))

	for _, c := range []*Client{inL1, alsoL1} {
		got := recv(t, c)
		assert.Equal(t, TypeReadyStatusUpdated, got["type"])
		assert.Equal(t, true, got["allReady"])
		participant := got["participant"].(map[string]any)
		assert.EqualValues(t, 3, participant["userId"])
	}
	recvNone(t, inL2)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := newTestHub()
	c := NewClient("a", 4)
	h.Register(1, c)
	require.Equal(t, 1, h.ConnectionCount(1))

	h.Unregister(c)
	c.Close()

	assert.Equal(t, 0, h.ConnectionCount(1))
	_, ok := h.LobbyOf(c)
	assert.False(t, ok)
	assert.Equal(t, 0, h.Broadcast(1, LobbyJoined{LobbyID: 1}))
	recvNone(t, c)
}

func TestUnregisterUnknownClient(t *testing.T) {
	h := newTestHub()
	// Should not panic
	h.Unregister(NewClient("ghost", 1))
}

func TestClosedClientIsSkipped(t *testing.T) {
	h := newTestHub()
	open := NewClient("open", 4)
	closed := NewClient("closed", 4)
	h.Register(1, open)
	h.Register(1, closed)
	closed.Close()

	assert.Equal(t, 1, h.Broadcast(1, LobbyJoined{LobbyID: 1}))
	recv(t, open)
	recvNone(t, closed)
	// still registered until the transport unregisters it
	assert.Equal(t, 2, h.ConnectionCount(1))
}

func TestRegisterMovesClient(t *testing.T) {
	h := newTestHub()
	c := NewClient("a", 4)

	_, moved := h.Register(1, c)
	assert.False(t, moved)

	_, moved = h.Register(1, c)
	assert.False(t, moved, "rejoining the same lobby is a no-op")

	prev, moved := h.Register(2, c)
	assert.True(t, moved)
	assert.EqualValues(t, 1, prev)

	assert.Equal(t, 0, h.ConnectionCount(1))
	assert.Equal(t, 1, h.ConnectionCount(2))
	lobby, ok := h.LobbyOf(c)
	require.True(t, ok)
	assert.EqualValues(t, 2, lobby)
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := newTestHub()
	c := NewClient("a", 1)
	h.Register(1, c)

	assert.Equal(t, 1, h.Broadcast(1, LobbyJoined{LobbyID: 1, Message: "first"}))
	// This should not block, the message is dropped
	assert.Equal(t, 0, h.Broadcast(1, LobbyJoined{LobbyID: 1, Message: "second"}))

	got := recv(t, c)
	assert.Equal(t, "first", got["message"])
	recvNone(t, c)
}

func TestSendTargetsOneClient(t *testing.T) {
	h := newTestHub()
	a := NewClient("a", 4)
	b := NewClient("b", 4)
	h.Register(1, a)
	h.Register(1, b)

	require.True(t, h.Send(a, LobbyJoined{LobbyID: 1, Message: "Joined lobby 1"}))
	got := recv(t, a)
	assert.Equal(t, TypeLobbyJoined, got["type"])
	assert.EqualValues(t, 1, got["lobbyId"])
	recvNone(t, b)
}

func TestConcurrentRegisterAndBroadcast(t *testing.T) {
	h := newTestHub()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := NewClient("c", 8)
			h.Register(1, c)
			h.Unregister(c)
			c.Close()
		}()
		go func() {
			defer wg.Done()
			h.Broadcast(1, LobbyJoined{LobbyID: 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.ConnectionCount(1))
}
