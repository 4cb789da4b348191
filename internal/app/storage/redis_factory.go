package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusweb/content-server/internal/config"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/sources"
	"github.com/campusweb/content-server/internal/status"
)

const redisPingTimeout = 5 * time.Second

// RedisFactory keeps sync status in Redis so replicas share it.
// Collections are still cached on the local filesystem.
type RedisFactory struct {
	config *config.Config
	client *redis.Client

	storageManager sources.StorageManager
}

var _ Factory = (*RedisFactory)(nil)

// NewRedisFactory connects to the configured Redis server and verifies it answers
func NewRedisFactory(ctx context.Context, cfg *config.Config) (*RedisFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Status == nil || cfg.Status.Redis == nil || cfg.Status.Redis.Addr == "" {
		return nil, fmt.Errorf("redis configuration is required for redis status type")
	}

	rc := cfg.Status.Redis
	client := redis.NewClient(&redis.Options{
		Addr:        rc.Addr,
		Password:    rc.Password,
		DB:          rc.DB,
		DialTimeout: redisPingTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", rc.Addr, err)
	}

	logger.Infow("Creating redis-backed storage factory", "addr", rc.Addr, "db", rc.DB)

	return &RedisFactory{
		config:         cfg,
		client:         client,
		storageManager: newStorageManager(cfg),
	}, nil
}

// CreateStatusPersistence returns status persistence backed by the shared client
func (r *RedisFactory) CreateStatusPersistence(_ context.Context) (status.StatusPersistence, error) {
	prefix := r.config.Status.Redis.KeyPrefix
	if prefix == "" {
		prefix = config.DefaultRedisKeyPrefix
	}
	return status.NewRedisStatusPersistence(r.client, prefix), nil
}

// CreateStorageManager returns the collection cache
func (r *RedisFactory) CreateStorageManager(_ context.Context) (sources.StorageManager, error) {
	return r.storageManager, nil
}

// Cleanup closes the Redis connection pool
func (r *RedisFactory) Cleanup() {
	if r.client == nil {
		return
	}
	logger.Info("Closing redis connection pool")
	if err := r.client.Close(); err != nil {
		logger.Warnf("Failed to close redis client: %v", err)
	}
}
