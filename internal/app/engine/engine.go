package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

// Options — настройки движка доступа.
type Options struct {
	TurnDuration time.Duration // длительность сессии, выданной из очереди
	SettleDelay  time.Duration // пауза стабилизации купола после наведения
}

// Engine управляет эксклюзивным доступом к телескопам: выдача сессий,
// очередь FIFO и машина состояний наблюдения. Все изменения сессий и
// очереди идут только через его методы.
type Engine struct {
	store   Store
	gateway Gateway
	photos  PhotoStore
	opts    Options

	mu    sync.Mutex
	locks map[int]*sync.Mutex // отдельный замок на каждый телескоп
}

func New(store Store, gateway Gateway, photos PhotoStore, opts Options) *Engine {
	if opts.TurnDuration <= 0 {
		opts.TurnDuration = 10 * time.Minute
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 8 * time.Second
	}
	return &Engine{
		store:   store,
		gateway: gateway,
		photos:  photos,
		opts:    opts,
		locks:   map[int]*sync.Mutex{},
	}
}

// telescopeLock возвращает замок телескопа. Под ним выполняются выдача
// сессии, продвижение очереди и переключение флага busy — так два
// конкурентных запроса не создадут вторую активную сессию.
func (e *Engine) telescopeLock(telescopeID int) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[telescopeID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[telescopeID] = l
	}
	return l
}

// AccessResult — исход запроса доступа: либо выдана сессия, либо
// пользователь поставлен в очередь.
type AccessResult struct {
	Granted  *models.Session    `json:"granted,omitempty"`
	Queued   *models.QueueEntry `json:"queued,omitempty"`
	Position int                `json:"position,omitempty"` // позиция в очереди, с 1
}

// RequestAccess — контроль допуска. Свободный телескоп — безлимитная
// сессия; повторный запрос владельца — та же сессия; занятый — очередь.
func (e *Engine) RequestAccess(ctx context.Context, telescopeID, userID int) (*AccessResult, error) {
	tel, err := e.store.GetTelescope(ctx, telescopeID)
	if err != nil {
		return nil, err
	}
	if tel == nil {
		return nil, ErrNotFound
	}
	if tel.Status != models.TelescopeAvailable {
		return nil, ErrTelescopeUnavailable
	}

	lock := e.telescopeLock(telescopeID)
	lock.Lock()
	defer lock.Unlock()

	active, err := e.store.ActiveSession(ctx, telescopeID)
	if err != nil {
		return nil, err
	}

	if active == nil {
		// Телескоп свободен — прямой доступ без ограничения по времени
		s := &models.Session{
			TelescopeID: telescopeID,
			UserID:      userID,
			StartedAt:   time.Now().UTC(),
			Status:      models.SessionActive,
		}
		if err := e.store.CreateSession(ctx, s); err != nil {
			return nil, err
		}
		logrus.Infof("Прямой доступ: телескоп %d, пользователь %d, сессия %d", telescopeID, userID, s.SessionID)
		return &AccessResult{Granted: s}, nil
	}

	if active.UserID == userID {
		// Повторный запрос владельца — возвращаем ту же сессию
		return &AccessResult{Granted: active}, nil
	}

	entry, err := e.Enqueue(ctx, telescopeID, userID)
	if err != nil && err != ErrAlreadyQueued {
		return nil, err
	}
	if err == ErrAlreadyQueued {
		entry, err = e.store.FindQueueEntry(ctx, telescopeID, userID)
		if err != nil {
			return nil, err
		}
	}

	// Как только за безлимитной сессией кто-то встал, владельцу
	// отмеряется ход: иначе очередь никогда не сдвинется
	if active.ExpiresAt == nil {
		expires := time.Now().UTC().Add(e.opts.TurnDuration)
		active.ExpiresAt = &expires
		if err := e.store.UpdateSession(ctx, active); err != nil {
			return nil, err
		}
		logrus.Infof("Сессия %d ограничена до %s: появилась очередь", active.SessionID, expires.Format(time.RFC3339))
	}

	pos, err := e.queuePosition(ctx, telescopeID, entry.QueueID)
	if err != nil {
		return nil, err
	}
	return &AccessResult{Queued: entry, Position: pos}, nil
}

// Enqueue добавляет пользователя в очередь телескопа.
// Повторная постановка — ErrAlreadyQueued.
func (e *Engine) Enqueue(ctx context.Context, telescopeID, userID int) (*models.QueueEntry, error) {
	existing, err := e.store.FindQueueEntry(ctx, telescopeID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrAlreadyQueued
	}
	entry := &models.QueueEntry{
		TelescopeID: telescopeID,
		UserID:      userID,
		EnqueuedAt:  time.Now().UTC(),
	}
	if err := e.store.CreateQueueEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (e *Engine) queuePosition(ctx context.Context, telescopeID, queueID int) (int, error) {
	queue, err := e.store.QueueFor(ctx, telescopeID)
	if err != nil {
		return 0, err
	}
	for i, ent := range queue {
		if ent.QueueID == queueID {
			return i + 1, nil
		}
	}
	return 0, nil
}

// Dequeue убирает пользователя из очередей всех телескопов.
// Отсутствие записей — не ошибка.
func (e *Engine) Dequeue(ctx context.Context, userID int) error {
	return e.store.DeleteQueueEntriesByUser(ctx, userID)
}

// EndSession переводит сессию в "finalizada" и продвигает очередь.
// Повторный вызов по уже завершённой сессии — no-op, чтобы ручное
// завершение и срабатывание таймера не конфликтовали.
func (e *Engine) EndSession(ctx context.Context, sessionID int, reason string) error {
	s, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNotFound
	}

	lock := e.telescopeLock(s.TelescopeID)
	lock.Lock()
	defer lock.Unlock()

	// Перечитываем под замком: параллельный вызов мог успеть раньше
	s, err = e.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil || s.Status != models.SessionActive {
		return nil
	}

	now := time.Now().UTC()
	s.Status = models.SessionEnded
	s.EndReason = reason
	s.EndedAt = &now
	s.Busy = false
	if err := e.store.UpdateSession(ctx, s); err != nil {
		return err
	}
	logrus.Infof("Сессия %d завершена (%s), телескоп %d", s.SessionID, reason, s.TelescopeID)

	return e.promoteNextLocked(ctx, s.TelescopeID)
}

// promoteNextLocked выдаёт телескоп первому из очереди.
// Вызывается только под замком телескопа.
func (e *Engine) promoteNextLocked(ctx context.Context, telescopeID int) error {
	entry, err := e.store.FirstQueueEntry(ctx, telescopeID)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	if err := e.store.DeleteQueueEntry(ctx, entry.QueueID); err != nil {
		return err
	}

	user, err := e.store.GetUser(ctx, entry.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		// Аккаунт исчез, пока человек стоял в очереди: слот остаётся
		// пустым, пользовательскую ошибку поднимать некому
		logrus.Warnf("Продвижение очереди: пользователь %d не найден, телескоп %d остаётся свободным", entry.UserID, telescopeID)
		return nil
	}

	expires := time.Now().UTC().Add(e.opts.TurnDuration)
	s := &models.Session{
		TelescopeID: telescopeID,
		UserID:      entry.UserID,
		StartedAt:   time.Now().UTC(),
		ExpiresAt:   &expires,
		Status:      models.SessionActive,
	}
	if err := e.store.CreateSession(ctx, s); err != nil {
		return err
	}
	logrus.Infof("Очередь: телескоп %d передан пользователю %d до %s", telescopeID, entry.UserID, expires.Format(time.RFC3339))
	return nil
}

// SetBusy переключает флаг занятости сессии. Только владелец активной
// сессии; установка поверх уже занятой — ErrBusy (compare-and-set,
// а не слепая запись).
func (e *Engine) SetBusy(ctx context.Context, sessionID, userID int, busy bool) error {
	s, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNotFound
	}

	lock := e.telescopeLock(s.TelescopeID)
	lock.Lock()
	defer lock.Unlock()

	s, err = e.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil || s.Status != models.SessionActive || s.UserID != userID {
		return ErrForbidden
	}
	if busy && s.Busy {
		return ErrBusy
	}
	if s.Busy == busy {
		return nil
	}
	s.Busy = busy
	return e.store.UpdateSession(ctx, s)
}

// SweepExpired завершает сессии с истёкшим сроком. Повторное
// срабатывание по той же сессии безопасно за счёт идемпотентности.
func (e *Engine) SweepExpired(ctx context.Context) {
	expired, err := e.store.ExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		logrus.Error("Ошибка выборки истёкших сессий: ", err)
		return
	}
	for _, s := range expired {
		if err := e.EndSession(ctx, s.SessionID, models.EndReasonExpired); err != nil {
			logrus.Errorf("Ошибка завершения истёкшей сессии %d: %v", s.SessionID, err)
		}
	}
}

// RunSweeper крутит периодическую проверку истечения до отмены контекста.
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.SweepExpired(ctx)
		}
	}
}
