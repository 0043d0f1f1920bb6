// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"tasknotify/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to the configured Redis instance with the given DB
// and verifies the connection before returning the client.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis (db %d): %w", db, err)
	}
	return client, nil
}
