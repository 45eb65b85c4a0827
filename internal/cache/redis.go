package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"posta/internal/entity"
	"posta/internal/entity/dto"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "posta:tag-usage:"
	generationPrefix = "posta:tag-generation:"
)

// RedisCache stores usage listings as JSON values with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to redisURL and verifies the connection.
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func usageKey(userID entity.UserID) string {
	return keyPrefix + userID.String()
}

func generationKey(userID entity.UserID) string {
	return generationPrefix + userID.String()
}

func readGeneration(ctx context.Context, cmd redis.Cmdable, userID entity.UserID) (uint64, error) {
	gen, err := cmd.Get(ctx, generationKey(userID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) Get(ctx context.Context, userID entity.UserID) ([]dto.TagWithUsage, bool, error) {
	data, err := c.client.Get(ctx, usageKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read tag usage from cache: %w", err)
	}

	var tags []dto.TagWithUsage
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal tag usage: %w", err)
	}
	return tags, true, nil
}

func (c *RedisCache) Generation(ctx context.Context, userID entity.UserID) (uint64, error) {
	gen, err := readGeneration(ctx, c.client, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read tag usage generation: %w", err)
	}
	return gen, nil
}

// Set writes the listing only while the generation key still holds
// generation. The key is watched so an Invalidate racing the write aborts it.
func (c *RedisCache) Set(ctx context.Context, userID entity.UserID, generation uint64, tags []dto.TagWithUsage) error {
	data, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tag usage: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, userID)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, usageKey(userID), data, c.ttl)
			return nil
		})
		return err
	}, generationKey(userID))
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to cache tag usage: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID entity.UserID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(userID))
		pipe.Del(ctx, usageKey(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate tag usage: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
