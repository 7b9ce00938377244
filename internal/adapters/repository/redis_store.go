package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/config"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/logger"
	"github.com/benedevries-code/lea-kalender/internal/ports"
)

// RedisStore is the remote key-value backend. Values are JSON blobs
// written wholesale under fixed keys.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis with retry and exponential backoff.
func NewRedisStore(cfg config.RedisConfig, log *logger.Logger) (ports.KeyValueStore, error) {
	maxRetries := 5
	retryDelay := 2 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Info("Connecting to Redis", "addr", cfg.GetAddr(), "attempt", attempt, "max_attempts", maxRetries)

		client := redis.NewClient(&redis.Options{
			Addr:         cfg.GetAddr(),
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 3,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, lastErr = client.Ping(ctx).Result()
		cancel()

		if lastErr == nil {
			log.Info("Redis connected", "addr", cfg.GetAddr())
			return &RedisStore{client: client}, nil
		}

		_ = client.Close()
		log.Warn("Redis connection failed", "error", lastErr)

		if attempt < maxRetries {
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	return nil, fmt.Errorf("connect to redis after %d attempts: %w", maxRetries, lastErr)
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, entities.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return []byte(val), nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Name() string {
	return "redis"
}
