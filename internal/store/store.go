package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"caredash/internal/models"
)

// DefaultTimeout bounds individual store calls so a hung database does not
// pin request handlers indefinitely.
const DefaultTimeout = 5 * time.Second

// ErrSessionNotFound is returned when no session exists for the given id.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the persistence capability the handlers depend on.
type SessionStore interface {
	// ListSessions returns every session with therapist and patient
	// loaded, ordered by date ascending.
	ListSessions(ctx context.Context) ([]models.Session, error)
	// GetSession returns a single session with relations loaded.
	GetSession(ctx context.Context, id int64) (models.Session, error)
	// UpdateSessionStatus sets only the status column of the given row,
	// then re-reads it with relations loaded.
	UpdateSessionStatus(ctx context.Context, id int64, status string) (models.Session, error)
	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error
}

// GormStore implements SessionStore over a GORM handle.
type GormStore struct {
	db *gorm.DB
}

// New wraps the provided GORM handle.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListSessions(ctx context.Context) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Preload("Therapist").
		Preload("Patient").
		Order("date asc").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *GormStore) GetSession(ctx context.Context, id int64) (models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	var session models.Session
	err := s.db.WithContext(ctx).
		Preload("Therapist").
		Preload("Patient").
		First(&session, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.Session{}, ErrSessionNotFound
	case err != nil:
		return models.Session{}, err
	}
	return session, nil
}

func (s *GormStore) UpdateSessionStatus(ctx context.Context, id int64, status string) (models.Session, error) {
	updateCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	err := s.db.WithContext(updateCtx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return models.Session{}, err
	}

	return s.GetSession(ctx, id)
}

func (s *GormStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
