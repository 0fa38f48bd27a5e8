package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/hardware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

// Исходы наблюдения
const (
	OutcomeCaptured     = "captured"      // купол навёлся, снимок сделан
	OutcomeBelowHorizon = "below_horizon" // объект под горизонтом, движение запрещено
	OutcomeHeld         = "held"          // контроллер отказался двигаться, позиция сохранена
)

// ObservationResult — итог BeginObservation.
type ObservationResult struct {
	Observation *models.Observation `json:"observation"`
	Outcome     string              `json:"outcome"`
	Reason      string              `json:"reason,omitempty"`
}

// FinishResult — итог FinishObservation.
type FinishResult struct {
	Observation *models.Observation `json:"observation,omitempty"`
	Warning     string              `json:"warning,omitempty"`
}

// BeginObservation запускает цикл наведения: busy=true, запись "en_curso",
// команда контроллеру, проверка горизонта, стабилизация, снимок.
// Замок телескопа не удерживается на время вызовов железа и паузы
// стабилизации — только на переходах состояния.
func (e *Engine) BeginObservation(ctx context.Context, sessionID, userID int, object string) (*ObservationResult, error) {
	// Нормализация: схлопываем повторные пробелы
	object = strings.Join(strings.Fields(object), " ")
	if object == "" {
		return nil, ErrInvalidInput
	}

	s, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}

	tel, err := e.store.GetTelescope(ctx, s.TelescopeID)
	if err != nil {
		return nil, err
	}
	// Телескоп увели на обслуживание — текущая сессия живёт,
	// но новые наведения не стартуют
	if tel == nil || tel.Status != models.TelescopeAvailable {
		return nil, ErrTelescopeUnavailable
	}

	lock := e.telescopeLock(s.TelescopeID)
	lock.Lock()
	s, err = e.store.GetSession(ctx, sessionID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	if s == nil || s.Status != models.SessionActive || s.UserID != userID {
		lock.Unlock()
		return nil, ErrForbidden
	}
	if s.Busy {
		lock.Unlock()
		return nil, ErrBusy
	}

	s.Busy = true
	if err := e.store.UpdateSession(ctx, s); err != nil {
		lock.Unlock()
		return nil, err
	}

	obs := &models.Observation{
		ObservationID: uuid.NewString(),
		SessionID:     sessionID,
		UserID:        userID,
		Object:        object,
		Status:        models.ObservationInProgress,
		StartedAt:     time.Now().UTC(),
	}
	if err := e.store.CreateObservation(ctx, obs); err != nil {
		// Запись не создалась — возвращаем сессию в свободное состояние
		s.Busy = false
		_ = e.store.UpdateSession(ctx, s)
		lock.Unlock()
		return nil, err
	}
	lock.Unlock()

	ep, err := e.endpoint(ctx, s.TelescopeID, models.HardwareBase)
	if err == nil && ep == nil {
		err = fmt.Errorf("controlador esp32_base sin configurar")
	}
	var res *hardware.PointResult
	if err == nil {
		res, err = e.gateway.PointAt(ctx, *ep, object)
	}
	if err != nil {
		// Контроллер недоступен: наблюдение закрывается сразу,
		// сессия не остаётся занятой из-за сбоя железа
		logrus.Error("Ошибка вызова контроллера купола: ", err)
		e.abortObservation(ctx, s, obs, "no se pudo contactar al controlador: "+err.Error())
		return nil, ErrHardwareUnreachable
	}

	// Координаты сохраняются независимо от исхода
	obs.Azimuth = &res.Azimuth
	obs.Altitude = &res.Altitude
	if err := e.store.UpdateObservation(ctx, obs); err != nil {
		return nil, err
	}

	// Горизонт: строго отрицательная высота запрещает движение купола.
	// Ровно ноль считается видимым.
	if res.Altitude < 0 {
		reason := fmt.Sprintf("objeto debajo del horizonte (altitud %.1f)", res.Altitude)
		e.abortObservation(ctx, s, obs, reason)
		logrus.Warnf("Наблюдение %s отклонено: %s", obs.ObservationID, reason)
		return &ObservationResult{Observation: obs, Outcome: OutcomeBelowHorizon, Reason: reason}, nil
	}

	if !res.WillMove {
		// Контроллер сам отказался двигаться (лимиты слежения и т.п.):
		// это не ошибка, купол держит позицию, сессия остаётся занятой
		// до явного FinishObservation
		obs.Warning = res.Reason
		if err := e.store.UpdateObservation(ctx, obs); err != nil {
			return nil, err
		}
		return &ObservationResult{Observation: obs, Outcome: OutcomeHeld, Reason: res.Reason}, nil
	}

	// Пауза стабилизации купола. Начатое движение не отменяется,
	// поэтому пауза всегда дорабатывает до конца.
	time.Sleep(e.opts.SettleDelay)

	warning := e.capturePhoto(ctx, s.TelescopeID, obs)

	lock.Lock()
	defer lock.Unlock()
	now := time.Now().UTC()
	obs.Status = models.ObservationFinished
	obs.EndedAt = &now
	obs.Warning = warning
	if err := e.store.UpdateObservation(ctx, obs); err != nil {
		return nil, err
	}
	if err := e.releaseBusy(ctx, sessionID); err != nil {
		return nil, err
	}

	return &ObservationResult{Observation: obs, Outcome: OutcomeCaptured, Reason: warning}, nil
}

// FinishObservation принудительно закрывает текущее наблюдение сессии.
// Терпит отсутствие записи "en_curso" и сбрасывает busy безусловно:
// сессия не должна застрять занятой из-за потерянного наблюдения.
func (e *Engine) FinishObservation(ctx context.Context, sessionID, userID int) (*FinishResult, error) {
	s, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}
	if s.UserID != userID {
		return nil, ErrForbidden
	}

	lock := e.telescopeLock(s.TelescopeID)
	lock.Lock()
	obs, err := e.store.ActiveObservation(ctx, sessionID)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	var warning string
	if obs != nil && obs.PhotoPath == "" && obs.Altitude != nil && *obs.Altitude >= 0 {
		// Снимка ещё нет (например, купол держал позицию) — пробуем
		// сделать его при финализации; неудача только предупреждение
		warning = e.capturePhoto(ctx, s.TelescopeID, obs)
	}

	lock.Lock()
	defer lock.Unlock()

	if obs != nil {
		now := time.Now().UTC()
		obs.Status = models.ObservationFinished
		obs.EndedAt = &now
		if warning != "" {
			obs.Warning = warning
		}
		if err := e.store.UpdateObservation(ctx, obs); err != nil {
			return nil, err
		}
	} else {
		logrus.Warnf("Финализация: у сессии %d нет наблюдения en_curso, освобождаем только busy", sessionID)
	}

	if err := e.releaseBusy(ctx, sessionID); err != nil {
		return nil, err
	}
	return &FinishResult{Observation: obs, Warning: warning}, nil
}

// abortObservation закрывает наблюдение без снимка и освобождает сессию.
// Вызывается вне замка телескопа.
func (e *Engine) abortObservation(ctx context.Context, s *models.Session, obs *models.Observation, warning string) {
	lock := e.telescopeLock(s.TelescopeID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UTC()
	obs.Status = models.ObservationFinished
	obs.EndedAt = &now
	obs.Warning = warning
	if err := e.store.UpdateObservation(ctx, obs); err != nil {
		logrus.Error("Ошибка закрытия прерванного наблюдения: ", err)
	}
	if err := e.releaseBusy(ctx, s.SessionID); err != nil {
		logrus.Error("Ошибка сброса busy после прерывания: ", err)
	}
}

// releaseBusy снимает флаг занятости. Вызывается только под замком телескопа.
func (e *Engine) releaseBusy(ctx context.Context, sessionID int) error {
	s, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil || !s.Busy {
		return nil
	}
	s.Busy = false
	return e.store.UpdateSession(ctx, s)
}

// capturePhoto снимает кадр и кладёт его в хранилище. Камера опциональна:
// любой сбой здесь — предупреждение, наблюдение не прерывается.
// Возвращает текст предупреждения либо пустую строку.
func (e *Engine) capturePhoto(ctx context.Context, telescopeID int, obs *models.Observation) string {
	ep, err := e.endpoint(ctx, telescopeID, models.HardwareCamera)
	if err != nil {
		return "no se pudo leer la configuracion de la camara: " + err.Error()
	}
	if ep == nil {
		return "camara sin configurar, observacion sin foto"
	}

	data, err := e.gateway.CapturePhoto(ctx, *ep)
	if err != nil {
		logrus.Warn("Камера не отдала снимок: ", err)
		return "no se pudo subir foto: " + err.Error()
	}

	path := photoPath(obs)
	if err := e.photos.SavePhoto(ctx, path, data); err != nil {
		logrus.Error("Ошибка загрузки снимка в хранилище: ", err)
		return "no se pudo subir foto: " + err.Error()
	}

	obs.PhotoPath = path
	if err := e.store.UpdateObservation(ctx, obs); err != nil {
		return "no se pudo guardar la ruta de la foto: " + err.Error()
	}
	logrus.Infof("Снимок наблюдения %s сохранён: %s", obs.ObservationID, path)
	return ""
}

func (e *Engine) endpoint(ctx context.Context, telescopeID int, kind string) (*hardware.Endpoint, error) {
	cfg, err := e.store.GetTelescopeConfig(ctx, telescopeID, kind)
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.Host == "" {
		return nil, nil
	}
	return &hardware.Endpoint{Host: cfg.Host, Port: cfg.Port}, nil
}

// photoPath — путь снимка вида
// observaciones/2006-01-02/jupiter_2006-01-02_obs_ab12cd34.jpg
func photoPath(obs *models.Observation) string {
	object := strings.ReplaceAll(strings.ToLower(obs.Object), " ", "_")
	if object == "" {
		object = "astro"
	}
	date := time.Now().Format("2006-01-02")
	shortID := obs.ObservationID
	if i := strings.Index(shortID, "-"); i > 0 {
		shortID = shortID[:i]
	}
	return fmt.Sprintf("observaciones/%s/%s_%s_obs_%s.jpg", date, object, date, shortID)
}
