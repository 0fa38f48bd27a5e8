package repository

import (
	"bytes"
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

type Repository struct {
	DB     *gorm.DB
	Redis  *RedisRepository
	Minio  *minio.Client
	Bucket string
}

func NewRepository(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Создаём/обновляем таблицы под модели
	err = db.AutoMigrate(
		&models.User{},
		&models.Telescope{},
		&models.TelescopeConfig{},
		&models.Session{},
		&models.QueueEntry{},
		&models.Observation{},
	)
	if err != nil {
		return nil, err
	}

	return &Repository{DB: db}, nil
}

// ============================
// Хранилище снимков (MinIO)
// ============================

// SavePhoto кладёт JPEG наблюдения в бакет по заданному пути.
func (r *Repository) SavePhoto(ctx context.Context, path string, data []byte) error {
	_, err := r.Minio.PutObject(ctx, r.Bucket, path,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	return err
}

// PhotoURL возвращает временную ссылку на скачивание снимка.
func (r *Repository) PhotoURL(ctx context.Context, path string) (string, error) {
	u, err := r.Minio.PresignedGetObject(ctx, r.Bucket, path, 60*time.Second, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
