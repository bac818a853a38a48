package database

import (
	"context"
	"errors"
	"fmt"

	"edugame/backend/internal/models"

	"gorm.io/gorm"
)

const maxJoinCodeAttempts = 5

// LobbyStore persists lobbies. It is the "get lobby by id" collaborator of the
// participant and score endpoints.
type LobbyStore struct {
	db      *gorm.DB
	newCode func() (string, error)
}

func NewLobbyStore(db *gorm.DB) *LobbyStore {
	return &LobbyStore{db: db, newCode: GenerateJoinCode}
}

// WithCodeGenerator replaces the join code source.
func (s *LobbyStore) WithCodeGenerator(gen func() (string, error)) *LobbyStore {
	s.newCode = gen
	return s
}

// Create assigns a fresh join code and inserts the lobby. A code already taken,
// including by a concurrent create, trips the unique index and a new code is drawn.
// The connection must be opened with TranslateError so the collision surfaces
// as gorm.ErrDuplicatedKey.
func (s *LobbyStore) Create(ctx context.Context, lobby *models.Lobby) error {
	if lobby.Status == "" {
		lobby.Status = models.LobbyStatusActive
	}

	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return fmt.Errorf("generating join code: %w", err)
		}

		lobby.ID = 0
		lobby.JoinCode = code
		err = s.db.WithContext(ctx).Create(lobby).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("creating lobby: %w", err)
		}
	}
	lobby.JoinCode = ""
	return ErrJoinCodeExhausted
}

// Get fetches a lobby by ID.
func (s *LobbyStore) Get(ctx context.Context, id uint) (*models.Lobby, error) {
	var lobby models.Lobby
	if err := s.db.WithContext(ctx).First(&lobby, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, fmt.Errorf("fetching lobby %d: %w", id, err)
	}
	return &lobby, nil
}

// GetByCode fetches a lobby by its join code. Codes are matched case-sensitively
// and callers are expected to upper-case user input.
func (s *LobbyStore) GetByCode(ctx context.Context, code string) (*models.Lobby, error) {
	var lobby models.Lobby
	if err := s.db.WithContext(ctx).Where("join_code = ?", code).First(&lobby).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, fmt.Errorf("fetching lobby by code: %w", err)
	}
	return &lobby, nil
}

// ListByOwner returns one page of a teacher's lobbies, newest first, and the total count.
func (s *LobbyStore) ListByOwner(ctx context.Context, ownerID uint, page, limit int) ([]models.Lobby, int64, error) {
	query := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC, id DESC")
	lobbies, total, err := Paginate[models.Lobby](query, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listing lobbies: %w", err)
	}
	return lobbies, total, nil
}

// UpdateStatus changes the lifecycle status and returns the updated lobby.
func (s *LobbyStore) UpdateStatus(ctx context.Context, id uint, status models.LobbyStatus) (*models.Lobby, error) {
	res := s.db.WithContext(ctx).Model(&models.Lobby{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("updating lobby status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrLobbyNotFound
	}
	return s.Get(ctx, id)
}

// Delete hard deletes the lobby together with its scores and participants.
func (s *LobbyStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lobby_id = ?", id).Delete(&models.Score{}).Error; err != nil {
			return fmt.Errorf("deleting scores: %w", err)
		}
		if err := tx.Where("lobby_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
			return fmt.Errorf("deleting participants: %w", err)
		}
		res := tx.Delete(&models.Lobby{}, id)
		if res.Error != nil {
			return fmt.Errorf("deleting lobby: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLobbyNotFound
		}
		return nil
	})
}

// Paginate executes a paginated query and returns the page and the total row count.
func Paginate[T any](db *gorm.DB, page, limit int) ([]T, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	// The count and the page query share db's conditions.
	db = db.Session(&gorm.Session{})

	var totalItems int64
	if err := db.Model(new(T)).Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	var results []T
	offset := (page - 1) * limit
	if err := db.Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, totalItems, nil
}
