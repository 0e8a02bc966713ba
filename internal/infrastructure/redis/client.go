package redisinfra

import (
	"fmt"

	"github.com/go-otp-auth/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client from cfg.RedisURL (redis://[:password@]host:port/db).
func NewClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}
