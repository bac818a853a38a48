package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"edugame/backend/internal/hub"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func nextMessage(t *testing.T, c *hub.Client) map[string]any {
	t.Helper()
	select {
	case data := <-c.Messages():
		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		return got
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected a message")
		return nil
	}
}

func noMessage(t *testing.T, c *hub.Client) {
	t.Helper()
	select {
	case data := <-c.Messages():
		t.Fatalf("unexpected message %s", data)
	default:
	}
}

func TestSessionJoinConfirms(t *testing.T) {
	h := hub.NewHub(quietLogger())
	client := hub.NewClient("c1", 4)
	s := NewSession(h, client, quietLogger())

	_, joined := s.LobbyID()
	assert.False(t, joined)

	s.Handle(context.Background(), []byte(`{"type":"join_lobby","lobbyId":12}`))

	got := nextMessage(t, client)
	assert.Equal(t, "lobby_joined", got["type"])
	assert.EqualValues(t, 12, got["lobbyId"])
	assert.Equal(t, "Joined lobby 12", got["message"])

	lobbyID, joined := s.LobbyID()
	assert.True(t, joined)
	assert.EqualValues(t, 12, lobbyID)
	assert.Equal(t, 1, h.ConnectionCount(12))
}

func TestSessionIgnoresMalformed(t *testing.T) {
	h := hub.NewHub(quietLogger())
	client := hub.NewClient("c1", 4)
	s := NewSession(h, client, quietLogger())

	for _, frame := range []string{
		`not json`,
		`{"lobbyId":3}`,
		`{"type":"dance"}`,
		`{"type":"join_lobby"}`,
		`{"type":"join_lobby","lobbyId":"three"}`,
	} {
		s.Handle(context.Background(), []byte(frame))
	}

	noMessage(t, client)
	_, joined := s.LobbyID()
	assert.False(t, joined)
	assert.False(t, client.Closed())
}

func TestSessionSecondJoinMoves(t *testing.T) {
	h := hub.NewHub(quietLogger())
	client := hub.NewClient("c1", 4)
	s := NewSession(h, client, quietLogger())

	s.Handle(context.Background(), []byte(`{"type":"join_lobby","lobbyId":1}`))
	nextMessage(t, client)
	s.Handle(context.Background(), []byte(`{"type":"join_lobby","lobbyId":1}`))
	nextMessage(t, client)
	assert.Equal(t, 1, h.ConnectionCount(1))

	s.Handle(context.Background(), []byte(`{"type":"join_lobby","lobbyId":2}`))
	got := nextMessage(t, client)
	assert.EqualValues(t, 2, got["lobbyId"])
	assert.Equal(t, 0, h.ConnectionCount(1))
	assert.Equal(t, 1, h.ConnectionCount(2))
}

func TestSessionCloseUnregisters(t *testing.T) {
	h := hub.NewHub(quietLogger())
	client := hub.NewClient("c1", 4)
	s := NewSession(h, client, quietLogger())

	s.Handle(context.Background(), []byte(`{"type":"join_lobby","lobbyId":5}`))
	nextMessage(t, client)

	s.Close()
	assert.True(t, client.Closed())
	assert.Equal(t, 0, h.ConnectionCount(5))
	assert.Equal(t, 0, h.Broadcast(5, hub.LobbyJoined{LobbyID: 5}))
}

func TestSessionAuthorizerGatesJoin(t *testing.T) {
	h := hub.NewHub(quietLogger())
	client := hub.NewClient("c1", 4)

	var asked []uint
	allowLobby7 := func(_ context.Context, lobbyID, userID uint) (bool, error) {
		asked = append(asked, userID)
		return lobbyID == 7, nil
	}
	s := NewSession(h, client, quietLogger()).WithAuthorizer(3, allowLobby7)

	s.Handle(context.Background(), []byte(`{"type":"join_lobby","lobbyId":8}`))
	noMessage(t, client)
	_, joined := s.LobbyID()
	assert.False(t, joined)
	assert.Equal(t, 0, h.ConnectionCount(8))

	s.Handle(context.Background(), []byte(`{"type":"join_lobby","lobbyId":7}`))
	got := nextMessage(t, client)
	assert.Equal(t, "lobby_joined", got["type"])
	assert.Equal(t, 1, h.ConnectionCount(7))
	assert.Equal(t, []uint{3, 3}, asked)
}

func TestSessionAuthorizerErrorDropsJoin(t *testing.T) {
	h := hub.NewHub(quietLogger())
	client := hub.NewClient("c1", 4)
	failing := func(context.Context, uint, uint) (bool, error) {
		return false, errors.New("database unavailable")
	}
	s := NewSession(h, client, quietLogger()).WithAuthorizer(3, failing)

	s.Handle(context.Background(), []byte(`{"type":"join_lobby","lobbyId":7}`))
	noMessage(t, client)
	assert.Equal(t, 0, h.ConnectionCount(7))
	assert.False(t, client.Closed())
}
