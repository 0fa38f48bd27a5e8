package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/api"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/config"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/engine"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/hardware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/middleware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/repository"
)

type Application struct {
	Config     *config.Config
	Router     *gin.Engine
	Repository *repository.Repository
	Engine     *engine.Engine
	Hardware   *hardware.Client
}

func NewApp(cfg *config.Config, r *gin.Engine, repo *repository.Repository, eng *engine.Engine, hw *hardware.Client) *Application {
	return &Application{
		Config:     cfg,
		Router:     r,
		Repository: repo,
		Engine:     eng,
		Hardware:   hw,
	}
}

func (a *Application) RunApp() {
	log.Info("Server start up")

	a.Router.Use(middleware.CORSMiddleware())
	middleware.InitAuth(a.Repository)
	api.RegisterRoutes(a.Router, a.Repository, a.Engine, a.Hardware, a.Config)

	// Фоновая проверка истёкших сессий
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Engine.RunSweeper(ctx, a.Config.SweepInterval)

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	if err := a.Router.Run(serverAddress); err != nil {
		log.Fatal(err)
	}
	log.Info("Server down")
}
