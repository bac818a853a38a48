package hub

import (
	"encoding/json"

	"edugame/backend/internal/models"
)

// Message types on the realtime channel.
const (
	TypeJoinLobby          = "join_lobby"
	TypeLobbyJoined        = "lobby_joined"
	TypeReadyStatusUpdated = "ready_status_updated"
	TypeParticipantRemoved = "participant_removed"
)

// Event is a server-to-client message. Events serialize flat, with their
// type under the "type" key.
type Event interface {
	EventType() string
}

// LobbyJoined confirms a join_lobby request to the connection that sent it.
type LobbyJoined struct {
	LobbyID uint   `json:"lobbyId"`
	Message string `json:"message"`
}

func (LobbyJoined) EventType() string { return TypeLobbyJoined }

func (e LobbyJoined) MarshalJSON() ([]byte, error) {
	type alias LobbyJoined
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{e.EventType(), alias(e)})
}

// ReadyStatusChanged is fanned out to a lobby after a participant toggles ready.
type ReadyStatusChanged struct {
	LobbyID     uint               `json:"lobbyId"`
	Participant models.Participant `json:"participant"`
	AllReady    bool               `json:"allReady"`
}

func (ReadyStatusChanged) EventType() string { return TypeReadyStatusUpdated }

func (e ReadyStatusChanged) MarshalJSON() ([]byte, error) {
	type alias ReadyStatusChanged
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{e.EventType(), alias(e)})
}

// ParticipantRemoved tells a lobby that the owner removed someone, with the
// ready state of those who remain.
type ParticipantRemoved struct {
	LobbyID       uint `json:"lobbyId"`
	ParticipantID uint `json:"participantId"`
	UserID        uint `json:"userId"`
	AllReady      bool `json:"allReady"`
}

func (ParticipantRemoved) EventType() string { return TypeParticipantRemoved }

func (e ParticipantRemoved) MarshalJSON() ([]byte, error) {
	type alias ParticipantRemoved
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{e.EventType(), alias(e)})
}
