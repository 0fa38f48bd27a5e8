package engine

import (
	"context"
	"time"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/hardware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

// Store — операции движка над внешним хранилищем.
// Методы Get*/Find* возвращают (nil, nil), если записи нет.
type Store interface {
	GetTelescope(ctx context.Context, id int) (*models.Telescope, error)
	GetTelescopeConfig(ctx context.Context, telescopeID int, kind string) (*models.TelescopeConfig, error)
	GetUser(ctx context.Context, id int) (*models.User, error)

	GetSession(ctx context.Context, id int) (*models.Session, error)
	ActiveSession(ctx context.Context, telescopeID int) (*models.Session, error)
	CreateSession(ctx context.Context, s *models.Session) error
	UpdateSession(ctx context.Context, s *models.Session) error
	ExpiredSessions(ctx context.Context, now time.Time) ([]models.Session, error)

	QueueFor(ctx context.Context, telescopeID int) ([]models.QueueEntry, error)
	FindQueueEntry(ctx context.Context, telescopeID, userID int) (*models.QueueEntry, error)
	FirstQueueEntry(ctx context.Context, telescopeID int) (*models.QueueEntry, error)
	CreateQueueEntry(ctx context.Context, e *models.QueueEntry) error
	DeleteQueueEntry(ctx context.Context, queueID int) error
	DeleteQueueEntriesByUser(ctx context.Context, userID int) error

	ActiveObservation(ctx context.Context, sessionID int) (*models.Observation, error)
	CreateObservation(ctx context.Context, o *models.Observation) error
	UpdateObservation(ctx context.Context, o *models.Observation) error
}

// Gateway — вызовы к контроллеру купола и камере.
// Сетевые сбои приходят как ошибка, никогда не как паника.
type Gateway interface {
	PointAt(ctx context.Context, ep hardware.Endpoint, object string) (*hardware.PointResult, error)
	CapturePhoto(ctx context.Context, ep hardware.Endpoint) ([]byte, error)
}

// PhotoStore — сохранение снимков наблюдений.
type PhotoStore interface {
	SavePhoto(ctx context.Context, path string, data []byte) error
}
