package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/repository"
)

func registerObservationRoutes(r *gin.RouterGroup) {
	observations := r.Group("/observations")
	{
		observations.POST("/begin", beginObservation)
		observations.POST("/finish", finishObservation)
		observations.GET("/active/:sessionID", getActiveObservation)
		observations.GET("", listObservations)
		observations.GET("/:id/photo", getObservationPhoto)
	}
}

func beginObservation(c *gin.Context) {
	var req struct {
		SessionID int    `json:"session_id"`
		Object    string `json:"object"`
	}
	if err := c.BindJSON(&req); err != nil || req.SessionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный session_id"})
		return
	}

	result, err := eng.BeginObservation(c.Request.Context(), req.SessionID, currentUserID(c), req.Object)
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func finishObservation(c *gin.Context) {
	var req struct {
		SessionID int `json:"session_id"`
	}
	if err := c.BindJSON(&req); err != nil || req.SessionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный session_id"})
		return
	}

	result, err := eng.FinishObservation(c.Request.Context(), req.SessionID, currentUserID(c))
	if err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func getActiveObservation(c *gin.Context) {
	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID сессии"})
		return
	}

	obs, err := repo.ActiveObservation(c.Request.Context(), sessionID)
	if err != nil {
		logrus.Error("Ошибка получения наблюдения: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Наблюдение отдаётся всегда одним объектом либо null,
	// никаких массивов
	c.JSON(http.StatusOK, gin.H{"data": obs})
}

func listObservations(c *gin.Context) {
	filter := repository.ObservationFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Status: strings.TrimSpace(c.Query("status")),
		From:   strings.TrimSpace(c.Query("from")),
		To:     strings.TrimSpace(c.Query("to")),
	}

	items, err := repo.ListObservations(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		logrus.Error("Ошибка получения истории наблюдений: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func getObservationPhoto(c *gin.Context) {
	ctx := c.Request.Context()
	obs, err := repo.GetObservation(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if obs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Наблюдение не найдено"})
		return
	}
	// Снимок доступен только владельцу
	if obs.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Нет доступа к чужому снимку"})
		return
	}
	if obs.PhotoPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Снимок отсутствует"})
		return
	}

	url, err := repo.PhotoURL(ctx, obs.PhotoPath)
	if err != nil {
		logrus.Error("Ошибка генерации ссылки на снимок: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, url)
}
