package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"symptom-checker-server/internal/models"
)

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// AdviceCache keeps generated advice in Redis as JSON.
type AdviceCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAdviceCache stores entries for ttl; zero keeps them until evicted.
func NewAdviceCache(client redis.Cmdable, ttl time.Duration) *AdviceCache {
	return &AdviceCache{client: client, ttl: ttl}
}

func (c *AdviceCache) Get(ctx context.Context, key string) (models.MedicalAdvice, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.MedicalAdvice{}, false, nil
	}
	if err != nil {
		return models.MedicalAdvice{}, false, err
	}

	var advice models.MedicalAdvice
	if err := json.Unmarshal(raw, &advice); err != nil {
		return models.MedicalAdvice{}, false, fmt.Errorf("decode cached advice: %w", err)
	}
	return advice, true, nil
}

func (c *AdviceCache) Set(ctx context.Context, key string, advice models.MedicalAdvice) error {
	raw, err := json.Marshal(advice)
	if err != nil {
		return fmt.Errorf("encode advice: %w", err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
