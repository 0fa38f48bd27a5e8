package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/config"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/engine"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/hardware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/redisdb"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/repository"
	app "github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/pkg"
)

func main() {
	// --- Загружаем конфиг ---
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфига: %v", err)
	}

	// --- Подключаемся к БД ---
	repo, err := repository.NewRepository(cfg.DSN)
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}

	// --- Redis и MinIO ---
	redisClient := redisdb.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	repo.Redis = repository.NewRedisRepository(redisClient)
	repo.Minio = config.InitMinio(cfg)
	repo.Bucket = cfg.MinioBucket

	// --- Шлюз к железу и движок доступа ---
	hw := hardware.NewClient(20 * time.Second)
	eng := engine.New(repo, hw, repo, engine.Options{
		TurnDuration: cfg.TurnDuration,
		SettleDelay:  cfg.SettleDelay,
	})

	// --- Gin роутер и запуск ---
	router := gin.Default()
	application := app.NewApp(cfg, router, repo, eng, hw)
	application.RunApp()
}
