package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"edugame/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrLobbyNotFound       = errors.New("lobby not found")
	ErrLobbyFull           = errors.New("lobby is full")
	ErrLobbyClosed         = errors.New("lobby is completed")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrScoreNotFound       = errors.New("score not found")
	ErrJoinCodeExhausted   = errors.New("could not allocate a unique join code")
)

// NewGormLogger routes gorm's SQL warnings through the process logger.
func NewGormLogger(l *logrus.Logger) logger.Interface {
	return logger.New(
		log.New(l.WriterLevel(logrus.WarnLevel), "", 0), // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,
		},
	)
}

// Connect opens the Postgres connection and runs migrations.
func Connect(dsn string, l *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         NewGormLogger(l),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	l.Info("Database connection established.")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	l.Info("Database migrated successfully.")
	return db, nil
}

// Migrate creates or updates the lobby, participant and score tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Lobby{}, &models.Participant{}, &models.Score{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
