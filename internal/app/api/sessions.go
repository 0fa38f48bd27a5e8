package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

func registerSessionRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	{
		sessions.GET("/active/:telescopeID", getActiveSession)
		sessions.GET("/my", getMySessions)
		sessions.POST("/:id/end", endSession)
	}
}

func getActiveSession(c *gin.Context) {
	telescopeID, err := strconv.Atoi(c.Param("telescopeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID телескопа"})
		return
	}

	session, err := repo.ActiveSession(c.Request.Context(), telescopeID)
	if err != nil {
		logrus.Error("Ошибка получения активной сессии: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// session == nil — телескоп свободен, это не ошибка
	c.JSON(http.StatusOK, gin.H{"data": session})
}

func getMySessions(c *gin.Context) {
	sessions, err := repo.SessionsByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		logrus.Error("Ошибка получения сессий пользователя: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func endSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID сессии"})
		return
	}

	ctx := c.Request.Context()
	session, err := repo.GetSession(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Сессия не найдена"})
		return
	}

	uid := currentUserID(c)
	reason := models.EndReasonManual
	if session.UserID != uid {
		// Чужую сессию может снять только модератор
		if !isModerator(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Нет прав завершить чужую сессию"})
			return
		}
		reason = models.EndReasonAdmin
	}

	if err := eng.EndSession(ctx, id, reason); err != nil {
		abortEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Сессия завершена"})
}
