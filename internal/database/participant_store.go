package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edugame/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ParticipantStore is the participant registry: lobby membership plus the
// per-member ready flag.
type ParticipantStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewParticipantStore(db *gorm.DB) *ParticipantStore {
	return &ParticipantStore{db: db, now: time.Now}
}

// Join adds userID to the lobby. Joining twice returns the existing row.
// New members are refused with ErrLobbyClosed or ErrLobbyFull; existing members
// are always returned, even from a completed or full lobby.
func (s *ParticipantStore) Join(ctx context.Context, lobbyID, userID uint) (*models.Participant, error) {
	var participant models.Participant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("lobby_id = ? AND user_id = ?", lobbyID, userID).First(&participant).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// The row lock serialises joins to one lobby so the capacity count holds.
		var lobby models.Lobby
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&lobby, lobbyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLobbyNotFound
			}
			return err
		}
		if lobby.Status == models.LobbyStatusCompleted {
			return ErrLobbyClosed
		}

		var count int64
		if err := tx.Model(&models.Participant{}).Where("lobby_id = ?", lobbyID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(lobby.MaxParticipants) {
			return ErrLobbyFull
		}

		// A concurrent join for the same pair loses on the unique index and
		// reads back the winner's row.
		row := models.Participant{LobbyID: lobbyID, UserID: userID, JoinedAt: s.now().UTC()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("lobby_id = ? AND user_id = ?", lobbyID, userID).First(&participant).Error
	})
	if err != nil {
		if errors.Is(err, ErrLobbyNotFound) || errors.Is(err, ErrLobbyClosed) || errors.Is(err, ErrLobbyFull) {
			return nil, err
		}
		return nil, fmt.Errorf("joining lobby %d: %w", lobbyID, err)
	}
	return &participant, nil
}

// Get returns the membership row for (lobbyID, userID).
func (s *ParticipantStore) Get(ctx context.Context, lobbyID, userID uint) (*models.Participant, error) {
	var participant models.Participant
	err := s.db.WithContext(ctx).Where("lobby_id = ? AND user_id = ?", lobbyID, userID).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("fetching participant: %w", err)
	}
	return &participant, nil
}

// IsMember reports whether userID has joined the lobby.
func (s *ParticipantStore) IsMember(ctx context.Context, lobbyID, userID uint) (bool, error) {
	_, err := s.Get(ctx, lobbyID, userID)
	if errors.Is(err, ErrParticipantNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns the lobby's participants in join order.
func (s *ParticipantStore) List(ctx context.Context, lobbyID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := s.db.WithContext(ctx).
		Where("lobby_id = ?", lobbyID).
		Order("joined_at ASC, id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	return participants, nil
}

// SetReady updates the caller's own ready flag. Concurrent writes for the same
// pair are last-write-wins.
func (s *ParticipantStore) SetReady(ctx context.Context, lobbyID, userID uint, isReady bool) (*models.Participant, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("lobby_id = ? AND user_id = ?", lobbyID, userID).
		Update("is_ready", isReady)
	if res.Error != nil {
		return nil, fmt.Errorf("updating ready flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrParticipantNotFound
	}
	return s.Get(ctx, lobbyID, userID)
}

// Counts returns how many participants the lobby has and how many of them are ready.
func (s *ParticipantStore) Counts(ctx context.Context, lobbyID uint) (total, ready int64, err error) {
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Participant{}).Where("lobby_id = ?", lobbyID).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("counting participants: %w", err)
	}
	if err := db.Model(&models.Participant{}).Where("lobby_id = ? AND is_ready = ?", lobbyID, true).Count(&ready).Error; err != nil {
		return 0, 0, fmt.Errorf("counting ready participants: %w", err)
	}
	return total, ready, nil
}

// AllReady is true only when the lobby has at least one participant and every
// participant is ready. An empty lobby is never all-ready.
func (s *ParticipantStore) AllReady(ctx context.Context, lobbyID uint) (bool, error) {
	total, ready, err := s.Counts(ctx, lobbyID)
	if err != nil {
		return false, err
	}
	return total > 0 && ready == total, nil
}

// Remove hard deletes a participant row belonging to lobbyID and returns it.
func (s *ParticipantStore) Remove(ctx context.Context, lobbyID, participantID uint) (*models.Participant, error) {
	var participant models.Participant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND lobby_id = ?", participantID, lobbyID).First(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}
		res := tx.Delete(&models.Participant{}, participant.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrParticipantNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("removing participant: %w", err)
	}
	return &participant, nil
}
