package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func registerAccessRoutes(r *gin.RouterGroup) {
	r.POST("/access/request", requestAccess)
}

// Режимы выдачи доступа (как их показывает клиент)
const (
	modeDirect = "ACCESO_DIRECTO"
	modeQueued = "EN_COLA"
)

func requestAccess(c *gin.Context) {
	var req struct {
		TelescopeID int `json:"telescope_id"`
	}
	if err := c.BindJSON(&req); err != nil || req.TelescopeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный telescope_id"})
		return
	}

	result, err := eng.RequestAccess(c.Request.Context(), req.TelescopeID, currentUserID(c))
	if err != nil {
		abortEngineError(c, err)
		return
	}

	if result.Granted != nil {
		c.JSON(http.StatusOK, gin.H{
			"mode":    modeDirect,
			"session": result.Granted,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mode":     modeQueued,
		"queue":    result.Queued,
		"position": result.Position,
	})
}
