package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/config"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/engine"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/hardware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/middleware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/repository"
)

var (
	repo *repository.Repository
	eng  *engine.Engine
	hw   *hardware.Client
	conf *config.Config
)

func RegisterRoutes(r *gin.Engine, repository *repository.Repository, e *engine.Engine, client *hardware.Client, cfg *config.Config) {
	repo = repository
	eng = e
	hw = client
	conf = cfg

	api := r.Group("/api")

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	registerUserRoutes(api)

	// Всё остальное — только с токеном
	protected := api.Group("", middleware.AuthMiddleware())
	registerTelescopeRoutes(protected)
	registerAccessRoutes(protected)
	registerSessionRoutes(protected)
	registerQueueRoutes(protected)
	registerObservationRoutes(protected)
	registerHardwareConfigRoutes(protected)
}

// currentUserID — ID пользователя, положенный в контекст auth-middleware
func currentUserID(c *gin.Context) int {
	uid, _ := c.Get("user_id")
	id, _ := uid.(int)
	return id
}

func isModerator(c *gin.Context) bool {
	v, _ := c.Get("is_moderator")
	m, _ := v.(bool)
	return m
}

// abortEngineError переводит ошибки движка в HTTP-ответы
func abortEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Не найдено"})
	case errors.Is(err, engine.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Нет прав: сессия чужая или неактивна"})
	case errors.Is(err, engine.ErrTelescopeUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Телескоп недоступен (обслуживание или выведен из строя)"})
	case errors.Is(err, engine.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Сессия занята: наблюдение уже идёт"})
	case errors.Is(err, engine.ErrAlreadyQueued):
		c.JSON(http.StatusConflict, gin.H{"error": "Вы уже в очереди"})
	case errors.Is(err, engine.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные"})
	case errors.Is(err, engine.ErrHardwareUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Не удалось связаться с контроллером телескопа"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
