package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

// ============================
// Телескопы
// ============================

func (r *Repository) GetTelescopes(ctx context.Context) ([]models.Telescope, error) {
	var telescopes []models.Telescope
	err := r.DB.WithContext(ctx).Order("telescope_id").Find(&telescopes).Error
	if err != nil {
		return nil, err
	}
	return telescopes, nil
}

func (r *Repository) GetTelescope(ctx context.Context, id int) (*models.Telescope, error) {
	var telescope models.Telescope
	err := r.DB.WithContext(ctx).First(&telescope, "telescope_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &telescope, nil
}

// UpdateTelescopeStatus меняет административное состояние.
// Возвращает false, если телескопа нет.
func (r *Repository) UpdateTelescopeStatus(ctx context.Context, id int, status string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Telescope{}).
		Where("telescope_id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ============================
// Конфигурация железа
// ============================

func (r *Repository) GetTelescopeConfig(ctx context.Context, telescopeID int, kind string) (*models.TelescopeConfig, error) {
	var cfg models.TelescopeConfig
	err := r.DB.WithContext(ctx).
		Where("telescope_id = ? AND kind = ?", telescopeID, kind).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *Repository) GetTelescopeConfigs(ctx context.Context, telescopeID int) ([]models.TelescopeConfig, error) {
	var cfgs []models.TelescopeConfig
	err := r.DB.WithContext(ctx).
		Where("telescope_id = ?", telescopeID).
		Order("kind").
		Find(&cfgs).Error
	if err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (r *Repository) UpsertTelescopeConfig(ctx context.Context, cfg *models.TelescopeConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telescope_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"host", "port", "updated_at"}),
		}).
		Create(cfg).Error
}
