package models

import "time"

// Статусы телескопа (административное состояние)
const (
	TelescopeAvailable    = "disponible"
	TelescopeMaintenance  = "mantenimiento"
	TelescopeOutOfService = "fuera_de_servicio"
)

// Статусы сессии
const (
	SessionActive = "activa"
	SessionEnded  = "finalizada"
)

// Причины завершения сессии
const (
	EndReasonManual  = "manual"
	EndReasonExpired = "expirada"
	EndReasonAdmin   = "admin"
)

// Статусы наблюдения
const (
	ObservationInProgress = "en_curso"
	ObservationFinished   = "finalizada"
)

// Типы аппаратных контроллеров телескопа
const (
	HardwareBase   = "esp32_base"
	HardwareCamera = "esp32_cam"
)

type User struct {
	UserID       int    `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username     string `gorm:"column:username;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"column:password_hash" json:"-"`
	IsModerator  bool   `gorm:"column:is_moderator" json:"is_moderator"`
}

type Telescope struct {
	TelescopeID int    `gorm:"column:telescope_id;primaryKey;autoIncrement" json:"telescope_id"`
	Name        string `gorm:"column:name" json:"name"`
	Status      string `gorm:"column:status;default:disponible" json:"status"`
}

// Конфигурация железа: host/port контроллера купола и камеры.
// Читается только аппаратным шлюзом.
type TelescopeConfig struct {
	TelescopeID int       `gorm:"column:telescope_id;primaryKey" json:"telescope_id"`
	Kind        string    `gorm:"column:kind;primaryKey" json:"kind"` // esp32_base / esp32_cam
	Host        string    `gorm:"column:host" json:"host"`
	Port        int       `gorm:"column:port" json:"port"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// Сессия — эксклюзивный доступ одного пользователя к одному телескопу.
// Инвариант: на телескоп не более одной сессии в статусе "activa".
type Session struct {
	SessionID   int        `gorm:"column:session_id;primaryKey;autoIncrement" json:"session_id"`
	TelescopeID int        `gorm:"column:telescope_id;index" json:"telescope_id"`
	UserID      int        `gorm:"column:user_id;index" json:"user_id"`
	StartedAt   time.Time  `gorm:"column:started_at" json:"started_at"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at"` // nil — без ограничения
	EndedAt     *time.Time `gorm:"column:ended_at" json:"ended_at"`
	Status      string     `gorm:"column:status;index" json:"status"`
	EndReason   string     `gorm:"column:end_reason" json:"end_reason,omitempty"`
	Busy        bool       `gorm:"column:busy" json:"busy"` // идёт наблюдение
}

// Запись очереди FIFO. Порядок — (enqueued_at, queue_id).
type QueueEntry struct {
	QueueID     int       `gorm:"column:queue_id;primaryKey;autoIncrement" json:"queue_id"`
	TelescopeID int       `gorm:"column:telescope_id;index" json:"telescope_id"`
	UserID      int       `gorm:"column:user_id;index" json:"user_id"`
	EnqueuedAt  time.Time `gorm:"column:enqueued_at;index" json:"enqueued_at"`
}

// Одна попытка наведения и съёмки в рамках сессии.
// Инвариант: на сессию не более одного наблюдения "en_curso".
type Observation struct {
	ObservationID string     `gorm:"column:observation_id;primaryKey" json:"observation_id"`
	SessionID     int        `gorm:"column:session_id;index" json:"session_id"`
	UserID        int        `gorm:"column:user_id;index" json:"user_id"`
	Object        string     `gorm:"column:object" json:"object"`
	Status        string     `gorm:"column:status;index" json:"status"`
	Azimuth       *float64   `gorm:"column:azimuth" json:"azimuth"`
	Altitude      *float64   `gorm:"column:altitude" json:"altitude"`
	PhotoPath     string     `gorm:"column:photo_path" json:"photo_path,omitempty"`
	Warning       string     `gorm:"column:warning" json:"warning,omitempty"`
	StartedAt     time.Time  `gorm:"column:started_at" json:"started_at"`
	EndedAt       *time.Time `gorm:"column:ended_at" json:"ended_at"`
}
