package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

// ============================
// Очередь FIFO
// ============================

// QueueFor — очередь телескопа в порядке прихода.
// Равные метки времени упорядочиваются по queue_id.
func (r *Repository) QueueFor(ctx context.Context, telescopeID int) ([]models.QueueEntry, error) {
	var queue []models.QueueEntry
	err := r.DB.WithContext(ctx).
		Where("telescope_id = ?", telescopeID).
		Order("enqueued_at ASC, queue_id ASC").
		Find(&queue).Error
	if err != nil {
		return nil, err
	}
	return queue, nil
}

func (r *Repository) FindQueueEntry(ctx context.Context, telescopeID, userID int) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := r.DB.WithContext(ctx).
		Where("telescope_id = ? AND user_id = ?", telescopeID, userID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) FirstQueueEntry(ctx context.Context, telescopeID int) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := r.DB.WithContext(ctx).
		Where("telescope_id = ?", telescopeID).
		Order("enqueued_at ASC, queue_id ASC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) CreateQueueEntry(ctx context.Context, entry *models.QueueEntry) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

func (r *Repository) DeleteQueueEntry(ctx context.Context, queueID int) error {
	return r.DB.WithContext(ctx).Delete(&models.QueueEntry{}, "queue_id = ?", queueID).Error
}

// DeleteQueueEntriesByUser убирает пользователя из всех очередей.
func (r *Repository) DeleteQueueEntriesByUser(ctx context.Context, userID int) error {
	return r.DB.WithContext(ctx).Delete(&models.QueueEntry{}, "user_id = ?", userID).Error
}
