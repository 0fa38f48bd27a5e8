package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

// ============================
// Сессии
// ============================

func (r *Repository) GetSession(ctx context.Context, id int) (*models.Session, error) {
	var s models.Session
	err := r.DB.WithContext(ctx).First(&s, "session_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ActiveSession — активная сессия телескопа, если есть.
func (r *Repository) ActiveSession(ctx context.Context, telescopeID int) (*models.Session, error) {
	var s models.Session
	err := r.DB.WithContext(ctx).
		Where("telescope_id = ? AND status = ?", telescopeID, models.SessionActive).
		Order("started_at DESC").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repository) CreateSession(ctx context.Context, s *models.Session) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *Repository) UpdateSession(ctx context.Context, s *models.Session) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

// ExpiredSessions — активные сессии, чей срок уже прошёл.
func (r *Repository) ExpiredSessions(ctx context.Context, now time.Time) ([]models.Session, error) {
	var sessions []models.Session
	err := r.DB.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.SessionActive, now).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionsByUser — история сессий пользователя, новые сверху.
func (r *Repository) SessionsByUser(ctx context.Context, userID int) ([]models.Session, error) {
	var sessions []models.Session
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
