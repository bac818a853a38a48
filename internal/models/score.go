package models

import "time"

// Score is one submission for a mini-game. Rows are appended, never updated;
// a user may have many rows per lobby and only the best one counts for ranking.
type Score struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LobbyID        uint      `gorm:"not null;index:idx_score_lobby_user" json:"lobbyId"`
	UserID         uint      `gorm:"not null;index:idx_score_lobby_user" json:"userId"`
	Score          int       `gorm:"not null" json:"score"`
	CompletionTime *float64  `json:"completionTime,omitempty"` // seconds
	SubmittedAt    time.Time `gorm:"not null;index" json:"submittedAt"`
}
