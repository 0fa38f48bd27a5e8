package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) CacheUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("user:%d", user.UserID)
	return r.client.Set(ctx, key, data, 10*time.Minute).Err()
}

func (r *RedisRepository) GetCachedUser(ctx context.Context, userID int) (*models.User, error) {
	key := fmt.Sprintf("user:%d", userID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetToken сохраняет token:<token> = userID (строка) с TTL
func (r *RedisRepository) SetToken(ctx context.Context, token string, userID int, ttl time.Duration) error {
	key := fmt.Sprintf("token:%s", token)
	return r.client.Set(ctx, key, strconv.Itoa(userID), ttl).Err()
}

// GetUserByToken возвращает userID по токену
func (r *RedisRepository) GetUserByToken(ctx context.Context, token string) (int, error) {
	key := fmt.Sprintf("token:%s", token)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *RedisRepository) DeleteToken(ctx context.Context, token string) error {
	key := fmt.Sprintf("token:%s", token)
	return r.client.Del(ctx, key).Err()
}
