package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/hardware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

func registerHardwareConfigRoutes(r *gin.RouterGroup) {
	r.GET("/telescopes/:id/config", getTelescopeConfig)
	r.POST("/telescopes/:id/config", upsertTelescopeConfig)
}

// getTelescopeConfig отдаёт адреса контроллеров по типам плюс
// признак, отвечает ли контроллер купола прямо сейчас.
func getTelescopeConfig(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	ctx := c.Request.Context()
	cfgs, err := repo.GetTelescopeConfigs(ctx, id)
	if err != nil {
		logrus.Error("Ошибка чтения конфигурации железа: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data := gin.H{}
	online := false
	for _, cfg := range cfgs {
		data[cfg.Kind] = gin.H{"host": cfg.Host, "port": cfg.Port}
		if cfg.Kind == models.HardwareBase && cfg.Host != "" {
			ep := hardware.Endpoint{Host: cfg.Host, Port: cfg.Port}
			online = hw.Status(ctx, ep) == nil
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": data, "online": online})
}

func upsertTelescopeConfig(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
		return
	}

	var req struct {
		Kind string `json:"kind"`
		Host string `json:"host"`
		Port int    `json:"port"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Kind = strings.TrimSpace(req.Kind)
	req.Host = strings.TrimSpace(req.Host)

	if req.Kind != models.HardwareBase && req.Kind != models.HardwareCamera {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный тип контроллера"})
		return
	}
	if req.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан host"})
		return
	}
	if req.Port <= 0 {
		req.Port = 80
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

	cfg := models.TelescopeConfig{
		TelescopeID: id,
		Kind:        req.Kind,
		Host:        req.Host,
		Port:        req.Port,
	}
	if err := repo.UpsertTelescopeConfig(c.Request.Context(), &cfg); err != nil {
		logrus.Error("Ошибка сохранения конфигурации железа: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Конфигурация сохранена"})
}
