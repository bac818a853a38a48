package hub

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Client represents a single realtime connection. The transport drains Messages
// and calls Close when the socket goes away.
type Client struct {
	ID string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a client with a send queue of the given size.
func NewClient(id string, buffer int) *Client {
	return &Client{
		ID:   id,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// Messages is the queue of serialized events waiting to be written.
func (c *Client) Messages() <-chan []byte { return c.send }

// Done is closed once the client is closed.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close marks the client as gone. It is safe to call more than once. The send
// channel is never closed so a concurrent broadcast cannot panic.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// deliver queues msg without blocking. Closed clients and full queues are skipped.
func (c *Client) deliver(msg []byte) bool {
	if c.Closed() {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Hub is the connection registry: which live clients listen to which lobby.
// A client belongs to at most one lobby; joining another lobby moves it.
type Hub struct {
	mu      sync.RWMutex
	lobbies map[uint]map[*Client]struct{}
	members map[*Client]uint
	log     logrus.FieldLogger
}

// NewHub creates a new Hub.
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		lobbies: make(map[uint]map[*Client]struct{}),
		members: make(map[*Client]uint),
		log:     log,
	}
}

// Register subscribes the client to lobbyID, dropping any previous lobby.
// It returns the lobby the client left, if any.
func (h *Hub) Register(lobbyID uint, client *Client) (previous uint, moved bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.members[client]; ok {
		if cur == lobbyID {
			return 0, false
		}
		h.removeLocked(cur, client)
		previous, moved = cur, true
	}

	if _, ok := h.lobbies[lobbyID]; !ok {
		h.lobbies[lobbyID] = make(map[*Client]struct{})
	}
	h.lobbies[lobbyID][client] = struct{}{}
	h.members[client] = lobbyID
	return previous, moved
}

// Unregister removes the client from whichever lobby it is in.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if lobbyID, ok := h.members[client]; ok {
		h.removeLocked(lobbyID, client)
		delete(h.members, client)
	}
}

func (h *Hub) removeLocked(lobbyID uint, client *Client) {
	if clients, ok := h.lobbies[lobbyID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.lobbies, lobbyID)
		}
	}
}

// LobbyOf returns the lobby the client is subscribed to.
func (h *Hub) LobbyOf(client *Client) (uint, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	lobbyID, ok := h.members[client]
	return lobbyID, ok
}

// ConnectionCount returns how many clients are subscribed to the lobby.
func (h *Hub) ConnectionCount(lobbyID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.lobbies[lobbyID])
}

// Broadcast serializes the event once and queues it for every open client in
// the lobby. It returns how many clients accepted it. Delivery is best-effort:
// closed or backed-up clients are skipped and unregistration is left to the
// transport's close path.
func (h *Hub) Broadcast(lobbyID uint, event Event) int {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).WithField("type", event.EventType()).Error("Failed to encode broadcast")
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.lobbies[lobbyID] {
		if client.deliver(messageBytes) {
			delivered++
		} else {
			h.log.WithFields(logrus.Fields{
				"lobby":  lobbyID,
				"client": client.ID,
				"type":   event.EventType(),
			}).Debug("Skipped broadcast to closed or slow client")
		}
	}
	return delivered
}

// Send queues an event for a single client.
func (h *Hub) Send(client *Client, event Event) bool {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).WithField("type", event.EventType()).Error("Failed to encode message")
		return false
	}
	return client.deliver(messageBytes)
}
