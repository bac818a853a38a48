package models

import "time"

// LobbyStatus is the lifecycle state of a lobby. Only the owning teacher changes it.
type LobbyStatus string

const (
	LobbyStatusActive    LobbyStatus = "active"
	LobbyStatusCompleted LobbyStatus = "completed"
)

// Valid reports whether s is a known lifecycle status.
func (s LobbyStatus) Valid() bool {
	return s == LobbyStatusActive || s == LobbyStatusCompleted
}

// Lobby is a game session created by a teacher that students join with a code.
// Lobbies are hard deleted; deleting one removes its participants and scores.
type Lobby struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OwnerID         uint        `gorm:"not null;index" json:"ownerId"`
	Title           string      `gorm:"size:255;not null" json:"title"`
	GameKind        string      `gorm:"size:64;not null;index" json:"gameKind"`
	Status          LobbyStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	JoinCode        string      `gorm:"size:16;not null;uniqueIndex" json:"joinCode"`
	MaxParticipants int         `gorm:"not null;default:30" json:"maxParticipants"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`

	Participants []Participant `gorm:"foreignKey:LobbyID;constraint:OnDelete:CASCADE;" json:"-"`
	Scores       []Score       `gorm:"foreignKey:LobbyID;constraint:OnDelete:CASCADE;" json:"-"`
}
