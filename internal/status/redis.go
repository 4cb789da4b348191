package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusweb/content-server/internal/logger"
)

// redisClient is the subset of *redis.Client used for status persistence
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

// redisStatusPersistence stores each resource's status as a JSON string under
// {prefix}status:{resource} and keeps the set of resource names under {prefix}status.
// Sharing status through Redis lets several replicas report the same sync state.
type redisStatusPersistence struct {
	client redisClient
	prefix string
}

// NewRedisStatusPersistence creates a Redis-backed status persistence
func NewRedisStatusPersistence(client redisClient, prefix string) StatusPersistence {
	return &redisStatusPersistence{client: client, prefix: prefix}
}

func (r *redisStatusPersistence) indexKey() string {
	return r.prefix + "status"
}

func (r *redisStatusPersistence) statusKey(resource string) string {
	return fmt.Sprintf("%sstatus:%s", r.prefix, resource)
}

// SaveStatus stores the status with no expiry and registers the resource in the index
func (r *redisStatusPersistence) SaveStatus(ctx context.Context, resource string, status *SyncStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status data for resource '%s': %w", resource, err)
	}
	if err := r.client.Set(ctx, r.statusKey(resource), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save status for resource '%s': %w", resource, err)
	}
	if err := r.client.SAdd(ctx, r.indexKey(), resource).Err(); err != nil {
		return fmt.Errorf("failed to index status for resource '%s': %w", resource, err)
	}
	return nil
}

// LoadStatus returns an empty status when the key does not exist
func (r *redisStatusPersistence) LoadStatus(ctx context.Context, resource string) (*SyncStatus, error) {
	value, err := r.client.Get(ctx, r.statusKey(resource)).Result()
	if errors.Is(err, redis.Nil) {
		return &SyncStatus{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load status for resource '%s': %w", resource, err)
	}

	var status SyncStatus
	if err := json.Unmarshal([]byte(value), &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status data for resource '%s': %w", resource, err)
	}
	return &status, nil
}

// LoadAllStatus loads every indexed resource, skipping entries that fail to load
func (r *redisStatusPersistence) LoadAllStatus(ctx context.Context) (map[string]*SyncStatus, error) {
	resources, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list status keys: %w", err)
	}

	result := make(map[string]*SyncStatus, len(resources))
	for _, resource := range resources {
		status, err := r.LoadStatus(ctx, resource)
		if err != nil {
			logger.Warnf("Skipping status for resource %s: %v", resource, err)
			continue
		}
		result[resource] = status
	}
	return result, nil
}
