package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

// ============================
// Наблюдения
// ============================

// ObservationFilter — фильтры истории наблюдений.
type ObservationFilter struct {
	Query  string // подстрока в названии объекта, без регистра
	Status string
	From   string // дата YYYY-MM-DD
	To     string
}

func (r *Repository) GetObservation(ctx context.Context, id string) (*models.Observation, error) {
	var obs models.Observation
	err := r.DB.WithContext(ctx).First(&obs, "observation_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &obs, nil
}

// ActiveObservation — наблюдение "en_curso" сессии, если есть.
func (r *Repository) ActiveObservation(ctx context.Context, sessionID int) (*models.Observation, error) {
	var obs models.Observation
	err := r.DB.WithContext(ctx).
		Where("session_id = ? AND status = ?", sessionID, models.ObservationInProgress).
		Order("started_at DESC").
		First(&obs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &obs, nil
}

func (r *Repository) CreateObservation(ctx context.Context, obs *models.Observation) error {
	return r.DB.WithContext(ctx).Create(obs).Error
}

func (r *Repository) UpdateObservation(ctx context.Context, obs *models.Observation) error {
	return r.DB.WithContext(ctx).Save(obs).Error
}

// ListObservations — история наблюдений пользователя с фильтрами,
// новые сверху, не больше 200 записей.
func (r *Repository) ListObservations(ctx context.Context, userID int, f ObservationFilter) ([]models.Observation, error) {
	q := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(200)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Query != "" {
		q = q.Where("LOWER(object) LIKE ?", "%"+strings.ToLower(f.Query)+"%")
	}
	if f.From != "" {
		q = q.Where("started_at >= ?", f.From+"T00:00:00Z")
	}
	if f.To != "" {
		q = q.Where("started_at <= ?", f.To+"T23:59:59Z")
	}

	var items []models.Observation
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
