package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edugame/backend/internal/models"

	"gorm.io/gorm"
)

// ScoreStore is the append-only record of score submissions. It does not check
// bounds or membership and it does not guard the best-score check callers make
// before Submit; ranking deduplicates whatever ends up stored.
type ScoreStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewScoreStore(db *gorm.DB) *ScoreStore {
	return &ScoreStore{db: db, now: time.Now}
}

// WithClock replaces the submission clock.
func (s *ScoreStore) WithClock(now func() time.Time) *ScoreStore {
	s.now = now
	return s
}

// Submit appends a score row stamped with the server time.
func (s *ScoreStore) Submit(ctx context.Context, lobbyID, userID uint, score int, completionTime *float64) (*models.Score, error) {
	row := models.Score{
		LobbyID:        lobbyID,
		UserID:         userID,
		Score:          score,
		CompletionTime: completionTime,
		SubmittedAt:    s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("inserting score: %w", err)
	}
	return &row, nil
}

// Get fetches one score row.
func (s *ScoreStore) Get(ctx context.Context, id uint) (*models.Score, error) {
	var score models.Score
	if err := s.db.WithContext(ctx).First(&score, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("fetching score %d: %w", id, err)
	}
	return &score, nil
}

// Best returns the user's best row in the lobby using the same ordering as ranking:
// highest score, then earliest submission.
func (s *ScoreStore) Best(ctx context.Context, lobbyID, userID uint) (*models.Score, error) {
	var score models.Score
	err := s.db.WithContext(ctx).
		Where("lobby_id = ? AND user_id = ?", lobbyID, userID).
		Order("score DESC, submitted_at ASC, id ASC").
		First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("fetching best score: %w", err)
	}
	return &score, nil
}

// ListByLobby returns every row for the lobby in no particular order.
func (s *ScoreStore) ListByLobby(ctx context.Context, lobbyID uint) ([]models.Score, error) {
	var scores []models.Score
	if err := s.db.WithContext(ctx).Where("lobby_id = ?", lobbyID).Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	return scores, nil
}

// ListByGameKind returns every row from lobbies of the given game kind.
func (s *ScoreStore) ListByGameKind(ctx context.Context, gameKind string) ([]models.Score, error) {
	var scores []models.Score
	err := s.db.WithContext(ctx).
		Joins("JOIN lobbies ON lobbies.id = scores.lobby_id").
		Where("lobbies.game_kind = ?", gameKind).
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("listing scores for %q: %w", gameKind, err)
	}
	return scores, nil
}

// Delete hard deletes a score row. A missing id is reported as ErrScoreNotFound.
func (s *ScoreStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Score{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting score: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrScoreNotFound
	}
	return nil
}
