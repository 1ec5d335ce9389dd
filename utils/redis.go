package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings Redis. It returns nil, nil when
// REDIS_ADDR is unset so callers can fall back to in-process behaviour.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.RedisEnabled() {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
