package database

import (
	"context"

	"github.com/Ismailbulbul21/somalidev-sub000/internal/config"
	"github.com/Ismailbulbul21/somalidev-sub000/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	_, err := Redis.Ping(context.Background()).Result()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, unread state and post caching fall back to in-memory storage")
		Redis = nil
	} else {
		logger.Info().Msg("Connected to Redis")
	}
}
