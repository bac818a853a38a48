package models

import "time"

// Participant is a user's membership in a lobby. The (LobbyID, UserID) pair is unique.
type Participant struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	LobbyID  uint      `gorm:"not null;uniqueIndex:idx_participant_lobby_user" json:"lobbyId"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_participant_lobby_user;index" json:"userId"`
	IsReady  bool      `gorm:"not null;default:false" json:"isReady"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`
}
