package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/middleware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

func registerTelescopeRoutes(r *gin.RouterGroup) {
	telescopes := r.Group("/telescopes")
	{
		telescopes.GET("", getTelescopes)
		telescopes.GET("/:id", getTelescopeByID)
		// Административное состояние меняют только модераторы
		telescopes.PUT("/:id/status", middleware.RequireModerator(), updateTelescopeStatus)
	}
}

func getTelescopes(c *gin.Context) {
	telescopes, err := repo.GetTelescopes(c.Request.Context())
	if err != nil {
		logrus.Error("Ошибка получения телескопов: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения телескопов"})
		return
	}
	c.JSON(http.StatusOK, telescopes)
}

func getTelescopeByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	telescope, err := repo.GetTelescope(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if telescope == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Телескоп не найден"})
		return
	}
	c.JSON(http.StatusOK, telescope)
}

func updateTelescopeStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	switch req.Status {
	case models.TelescopeAvailable, models.TelescopeMaintenance, models.TelescopeOutOfService:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный статус телескопа"})
		return
	}

	ok, err := repo.UpdateTelescopeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		logrus.Error("Ошибка обновления статуса телескопа: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Телескоп не найден"})
		return
	}

	logrus.Infof("Телескоп %d переведён в статус %q", id, req.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Статус обновлён"})
}
