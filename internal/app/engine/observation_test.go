package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/hardware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

// observationSetup — телескоп с настроенным железом и активной
// сессией пользователя 10.
func observationSetup(t *testing.T, gw *fakeGateway) (*Engine, *fakeStore, *fakePhotos, int) {
	t.Helper()
	store := newFakeStore()
	store.addTelescope(1, models.TelescopeAvailable)
	store.addUser(10)
	store.addConfig(1, models.HardwareBase, "192.168.1.50")
	store.addConfig(1, models.HardwareCamera, "192.168.1.51")

	e, photos := newTestEngine(store, gw)
	res, err := e.RequestAccess(context.Background(), 1, 10)
	require.NoError(t, err)
	require.NotNil(t, res.Granted)
	return e, store, photos, res.Granted.SessionID
}

func TestBeginObservationCapturesPhoto(t *testing.T) {
	gw := okGateway()
	e, store, photos, sid := observationSetup(t, gw)
	ctx := context.Background()

	result, err := e.BeginObservation(ctx, sid, 10, "  Jupiter   ")
	require.NoError(t, err)
	require.NotNil(t, result.Observation)

	obs := result.Observation
	assert.Equal(t, OutcomeCaptured, result.Outcome)
	assert.Equal(t, "Jupiter", obs.Object, "пробелы нормализуются")
	assert.Equal(t, models.ObservationFinished, obs.Status)
	require.NotNil(t, obs.Azimuth)
	require.NotNil(t, obs.Altitude)
	assert.InDelta(t, 120.5, *obs.Azimuth, 0.001)
	assert.InDelta(t, 42.3, *obs.Altitude, 0.001)
	assert.NotEmpty(t, obs.PhotoPath)
	assert.Contains(t, obs.PhotoPath, "jupiter")
	assert.Len(t, photos.saved, 1)

	// Сессия свободна, висящих наблюдений нет
	s, err := store.GetSession(ctx, sid)
	require.NoError(t, err)
	assert.False(t, s.Busy)
	assert.Equal(t, 0, store.inProgressCount(sid))
}

func TestBeginObservationRejectsBelowHorizon(t *testing.T) {
	gw := &fakeGateway{
		pointResult: &hardware.PointResult{Azimuth: 95.0, Altitude: -5.0, WillMove: true},
	}
	e, store, photos, sid := observationSetup(t, gw)
	ctx := context.Background()

	result, err := e.BeginObservation(ctx, sid, 10, "Canopus")
	require.NoError(t, err)
	assert.Equal(t, OutcomeBelowHorizon, result.Outcome)

	obs := result.Observation
	assert.Equal(t, models.ObservationFinished, obs.Status)
	require.NotNil(t, obs.Altitude)
	assert.InDelta(t, -5.0, *obs.Altitude, 0.001)
	assert.Empty(t, obs.PhotoPath)
	assert.Empty(t, photos.saved)
	assert.Equal(t, 0, gw.captures(), "камера не должна вызываться при нарушении горизонта")

	s, err := store.GetSession(ctx, sid)
	require.NoError(t, err)
	assert.False(t, s.Busy)
	assert.Equal(t, 0, store.inProgressCount(sid))
}

func TestBeginObservationAltitudeZeroIsVisible(t *testing.T) {
	gw := okGateway()
	gw.pointResult.Altitude = 0
	e, _, _, sid := observationSetup(t, gw)

	result, err := e.BeginObservation(context.Background(), sid, 10, "Mira")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCaptured, result.Outcome, "высота ровно 0 считается видимой")
}

func TestBeginObservationHardwareUnreachable(t *testing.T) {
	gw := &fakeGateway{pointErr: errors.New("connect: no route to host")}
	e, store, _, sid := observationSetup(t, gw)
	ctx := context.Background()

	_, err := e.BeginObservation(ctx, sid, 10, "Saturn")
	assert.ErrorIs(t, err, ErrHardwareUnreachable)

	// Сбой железа не оставляет сессию занятой и наблюдение висящим
	s, err := store.GetSession(ctx, sid)
	require.NoError(t, err)
	assert.False(t, s.Busy)
	assert.Equal(t, 0, store.inProgressCount(sid))
}

func TestBeginObservationWhileBusy(t *testing.T) {
	gw := &fakeGateway{
		pointResult: &hardware.PointResult{Azimuth: 10, Altitude: 30, WillMove: false, Reason: "limites de seguimiento"},
	}
	e, store, _, sid := observationSetup(t, gw)
	ctx := context.Background()

	// Купол отказался двигаться — позиция держится, сессия занята
	result, err := e.BeginObservation(ctx, sid, 10, "Vega")
	require.NoError(t, err)
	assert.Equal(t, OutcomeHeld, result.Outcome)
	assert.Equal(t, "limites de seguimiento", result.Reason)

	s, err := store.GetSession(ctx, sid)
	require.NoError(t, err)
	assert.True(t, s.Busy)
	assert.Equal(t, 1, store.inProgressCount(sid))

	// Вторая попытка поверх занятой сессии не затирает наблюдение
	_, err = e.BeginObservation(ctx, sid, 10, "Altair")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, store.inProgressCount(sid))
}

func TestBeginObservationValidation(t *testing.T) {
	e, _, _, sid := observationSetup(t, okGateway())
	ctx := context.Background()

	_, err := e.BeginObservation(ctx, sid, 10, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.BeginObservation(ctx, sid, 20, "Jupiter")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.BeginObservation(ctx, 9999, 10, "Jupiter")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBeginObservationBlockedByMaintenance(t *testing.T) {
	e, store, _, sid := observationSetup(t, okGateway())

	// Телескоп увели на обслуживание при живой сессии:
	// новые наведения блокируются
	store.addTelescope(1, models.TelescopeMaintenance)

	_, err := e.BeginObservation(context.Background(), sid, 10, "Jupiter")
	assert.ErrorIs(t, err, ErrTelescopeUnavailable)
}

func TestBeginObservationCameraFailureIsWarning(t *testing.T) {
	gw := okGateway()
	gw.photoErr = errors.New("camara respondio HTTP 500")
	e, store, photos, sid := observationSetup(t, gw)
	ctx := context.Background()

	result, err := e.BeginObservation(ctx, sid, 10, "Jupiter")
	require.NoError(t, err, "недоступность камеры не прерывает наблюдение")
	assert.Equal(t, OutcomeCaptured, result.Outcome)
	assert.Empty(t, result.Observation.PhotoPath)
	assert.Contains(t, result.Observation.Warning, "no se pudo subir foto")
	assert.Empty(t, photos.saved)

	s, err := store.GetSession(ctx, sid)
	require.NoError(t, err)
	assert.False(t, s.Busy)
}

func TestFinishObservationAfterHeldPosition(t *testing.T) {
	gw := &fakeGateway{
		pointResult: &hardware.PointResult{Azimuth: 10, Altitude: 30, WillMove: false, Reason: "limites"},
		photo:       make([]byte, 6000),
	}
	e, store, photos, sid := observationSetup(t, gw)
	ctx := context.Background()

	_, err := e.BeginObservation(ctx, sid, 10, "Vega")
	require.NoError(t, err)

	// Финализация делает снимок с удержанной позиции
	result, err := e.FinishObservation(ctx, sid, 10)
	require.NoError(t, err)
	require.NotNil(t, result.Observation)
	assert.Equal(t, models.ObservationFinished, result.Observation.Status)
	assert.NotEmpty(t, result.Observation.PhotoPath)
	assert.NotNil(t, result.Observation.EndedAt)
	assert.Len(t, photos.saved, 1)

	s, err := store.GetSession(ctx, sid)
	require.NoError(t, err)
	assert.False(t, s.Busy)
}

func TestFinishObservationToleratesMissingObservation(t *testing.T) {
	e, store, _, sid := observationSetup(t, okGateway())
	ctx := context.Background()

	// Вручную ставим busy без наблюдения — имитация потерянной записи
	require.NoError(t, e.SetBusy(ctx, sid, 10, true))

	result, err := e.FinishObservation(ctx, sid, 10)
	require.NoError(t, err)
	assert.Nil(t, result.Observation)

	// Сессия всё равно освобождается
	s, err := store.GetSession(ctx, sid)
	require.NoError(t, err)
	assert.False(t, s.Busy)

	// Повторная финализация — тоже no-op
	_, err = e.FinishObservation(ctx, sid, 10)
	require.NoError(t, err)

	_, err = e.FinishObservation(ctx, sid, 20)
	assert.ErrorIs(t, err, ErrForbidden)
}

// Сценарий: доступ → очередь → наблюдение → завершение сессии → продвижение.
func TestFullObservationScenario(t *testing.T) {
	gw := okGateway()
	store := newFakeStore()
	store.addTelescope(1, models.TelescopeAvailable)
	store.addUser(10)
	store.addUser(20)
	store.addConfig(1, models.HardwareBase, "192.168.1.50")
	store.addConfig(1, models.HardwareCamera, "192.168.1.51")
	e, _ := newTestEngine(store, gw)
	ctx := context.Background()

	// U1 получает безлимитную сессию
	res1, err := e.RequestAccess(ctx, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, res1.Granted)
	assert.Nil(t, res1.Granted.ExpiresAt)

	// U2 встаёт в очередь на позицию 1
	res2, err := e.RequestAccess(ctx, 1, 20)
	require.NoError(t, err)
	require.NotNil(t, res2.Queued)
	assert.Equal(t, 1, res2.Position)

	// U1 наблюдает Юпитер
	obsRes, err := e.BeginObservation(ctx, res1.Granted.SessionID, 10, "Jupiter")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCaptured, obsRes.Outcome)
	assert.NotEmpty(t, obsRes.Observation.PhotoPath)

	// U1 уходит — U2 получает сессию на 10 минут, очередь пустеет
	require.NoError(t, e.EndSession(ctx, res1.Granted.SessionID, models.EndReasonManual))
	promoted, err := store.ActiveSession(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, promoted)
	assert.Equal(t, 20, promoted.UserID)
	require.NotNil(t, promoted.ExpiresAt)

	queue, err := store.QueueFor(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, queue)
}
