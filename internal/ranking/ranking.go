// Package ranking turns raw score submissions into a leaderboard.
//
// Every endpoint that lists scores goes through Rank, so a lobby's scoreboard and
// the global per-game leaderboard always agree on who is ahead.
package ranking

import (
	"sort"
	"time"

	"edugame/backend/internal/models"
)

// DefaultLimit is the leaderboard length used when the caller does not ask for one.
const DefaultLimit = 10

// Entry is one user's row on a leaderboard, carrying their best submission.
type Entry struct {
	Rank           int       `json:"rank"`
	UserID         uint      `json:"userId"`
	LobbyID        uint      `json:"lobbyId"`
	ScoreID        uint      `json:"scoreId"`
	Score          int       `json:"score"`
	CompletionTime *float64  `json:"completionTime,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// better reports whether a beats b: higher score first, then the earlier
// submission. The row id settles exact timestamp collisions so the order is total.
func better(a, b models.Score) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.Before(b.SubmittedAt)
	}
	return a.ID < b.ID
}

// Rank keeps each user's best record and orders users by it. A limit of zero or
// less returns every user. The input slice is not modified.
func Rank(records []models.Score, limit int) []Entry {
	best := make(map[uint]models.Score, len(records))
	for _, r := range records {
		if cur, ok := best[r.UserID]; !ok || better(r, cur) {
			best[r.UserID] = r
		}
	}

	rows := make([]models.Score, 0, len(best))
	for _, r := range best {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return better(rows[i], rows[j]) })

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{
			Rank:           i + 1,
			UserID:         r.UserID,
			LobbyID:        r.LobbyID,
			ScoreID:        r.ID,
			Score:          r.Score,
			CompletionTime: r.CompletionTime,
			SubmittedAt:    r.SubmittedAt,
		}
	}
	return entries
}
