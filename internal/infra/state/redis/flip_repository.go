package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// flipTTL keeps a room's orientation overlay alive for six hours after the
// last write. Expiry just means everything renders face-down again.
const flipTTL = 6 * time.Hour

// RedisFlipRepository stores each room's flip map as a single JSON value so
// every write is an atomic overwrite with a fresh TTL.
type RedisFlipRepository struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisFlipRepository(client *redis.Client, keyPrefix string) *RedisFlipRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisFlipRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "md:"
	}
	return &RedisFlipRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisFlipRepository) flipsKey(roomID uuid.UUID) string {
	return fmt.Sprintf("%sroom:%s:flips", r.keyPrefix, roomID)
}

func (r *RedisFlipRepository) Get(ctx context.Context, roomID uuid.UUID) (domain.FlipMap, error) {
	key := r.flipsKey(roomID)
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.FlipMap{}, nil
		}
		return nil, fmt.Errorf("redis: get flips for room %s from %s: %w", roomID, key, err)
	}
	var flips domain.FlipMap
	if err := json.Unmarshal([]byte(raw), &flips); err != nil {
		return nil, fmt.Errorf("redis: unmarshal flips for room %s from %s: %w", roomID, key, err)
	}
	if flips == nil {
		flips = domain.FlipMap{}
	}
	return flips, nil
}

func (r *RedisFlipRepository) Set(ctx context.Context, roomID uuid.UUID, flips domain.FlipMap) error {
	if flips == nil {
		flips = domain.FlipMap{}
	}
	key := r.flipsKey(roomID)
	raw, err := json.Marshal(flips)
	if err != nil {
		return fmt.Errorf("redis: marshal flips for room %s: %w", roomID, err)
	}
	if err := r.client.Set(ctx, key, raw, flipTTL).Err(); err != nil {
		return fmt.Errorf("redis: set flips for room %s on %s: %w", roomID, key, err)
	}
	return nil
}

func (r *RedisFlipRepository) Clear(ctx context.Context, roomID uuid.UUID) error {
	return r.Set(ctx, roomID, domain.FlipMap{})
}
