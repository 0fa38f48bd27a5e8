package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config — настройки сервиса. Значения берутся из config.yaml
// и переменных окружения (DOMO_*), у всех есть дефолты.
type Config struct {
	ServiceHost string
	ServicePort int

	DSN           string
	RedisAddr     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	TurnDuration  time.Duration // длительность сессии из очереди
	SettleDelay   time.Duration // стабилизация купола после наведения
	SweepInterval time.Duration // период проверки истёкших сессий
	TokenTTL      time.Duration // время жизни токена авторизации
}

func NewConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("service_host", "0.0.0.0")
	v.SetDefault("service_port", 8080)
	v.SetDefault("dsn", "host=127.0.0.1 port=5432 user=domo password=domo123 dbname=domo sslmode=disable")
	v.SetDefault("redis_addr", "127.0.0.1:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "minio")
	v.SetDefault("minio_secret_key", "minio124")
	v.SetDefault("minio_bucket", "observaciones")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("turn_duration", "10m")
	v.SetDefault("settle_delay", "8s")
	v.SetDefault("sweep_interval", "15s")
	v.SetDefault("token_ttl", "24h")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("DOMO")
	v.AutomaticEnv()

	// Файл конфига опционален — дефолты и окружение покрывают всё
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		ServiceHost:    v.GetString("service_host"),
		ServicePort:    v.GetInt("service_port"),
		DSN:            v.GetString("dsn"),
		RedisAddr:      v.GetString("redis_addr"),
		RedisPassword:  v.GetString("redis_password"),
		MinioEndpoint:  v.GetString("minio_endpoint"),
		MinioAccessKey: v.GetString("minio_access_key"),
		MinioSecretKey: v.GetString("minio_secret_key"),
		MinioBucket:    v.GetString("minio_bucket"),
		MinioUseSSL:    v.GetBool("minio_use_ssl"),
		TurnDuration:   v.GetDuration("turn_duration"),
		SettleDelay:    v.GetDuration("settle_delay"),
		SweepInterval:  v.GetDuration("sweep_interval"),
		TokenTTL:       v.GetDuration("token_ttl"),
	}
	return cfg, nil
}
