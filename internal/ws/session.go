package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"edugame/backend/internal/hub"

	"github.com/sirupsen/logrus"
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type    string `json:"type"`
	LobbyID uint   `json:"lobbyId,omitempty"`
}

// Authorizer reports whether userID may follow lobbyID. userID is 0 for a
// connection that presented no valid token.
type Authorizer func(ctx context.Context, lobbyID, userID uint) (bool, error)

// Session is the per-connection protocol state: unjoined until the first valid
// join_lobby, then joined to exactly one lobby. A later join_lobby moves the
// connection; joining the same lobby again only re-confirms.
type Session struct {
	hub    *hub.Hub
	client *hub.Client
	log    logrus.FieldLogger

	userID    uint
	authorize Authorizer

	joined  bool
	lobbyID uint
}

func NewSession(h *hub.Hub, client *hub.Client, log logrus.FieldLogger) *Session {
	return &Session{hub: h, client: client, log: log}
}

// WithAuthorizer makes join_lobby subject to authorize for the given user.
// Without one every join is accepted.
func (s *Session) WithAuthorizer(userID uint, authorize Authorizer) *Session {
	s.userID = userID
	s.authorize = authorize
	return s
}

// LobbyID returns the lobby this session is joined to.
func (s *Session) LobbyID() (uint, bool) {
	return s.lobbyID, s.joined
}

// Handle processes one inbound frame. Malformed or unknown messages are logged
// and dropped; they never end the session.
func (s *Session) Handle(ctx context.Context, data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.WithError(err).Warn("Dropping malformed message")
		return
	}

	switch msg.Type {
	case "":
		s.log.Warn("Dropping message without type")
	case hub.TypeJoinLobby:
		s.join(ctx, msg.LobbyID)
	default:
		s.log.WithField("type", msg.Type).Warn("Dropping unknown message type")
	}
}

func (s *Session) join(ctx context.Context, lobbyID uint) {
	if lobbyID == 0 {
		s.log.Warn("Dropping join_lobby without lobbyId")
		return
	}

	if s.authorize != nil {
		allowed, err := s.authorize(ctx, lobbyID, s.userID)
		if err != nil {
			s.log.WithError(err).WithField("lobby", lobbyID).Error("Failed to authorize join_lobby")
			return
		}
		if !allowed {
			s.log.WithField("lobby", lobbyID).Warn("Dropping join_lobby from non-member")
			return
		}
	}

	previous, moved := s.hub.Register(lobbyID, s.client)
	s.joined = true
	s.lobbyID = lobbyID

	entry := s.log.WithField("lobby", lobbyID)
	if moved {
		entry = entry.WithField("previous_lobby", previous)
	}
	entry.Info("Connection joined lobby")

	s.hub.Send(s.client, hub.LobbyJoined{
		LobbyID: lobbyID,
		Message: fmt.Sprintf("Joined lobby %d", lobbyID),
	})
}

// Close unregisters the connection from the registry and marks it closed.
func (s *Session) Close() {
	s.hub.Unregister(s.client)
	s.client.Close()
	s.joined = false
}
