package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loadsmile/AIchatbot/internal/config"
)

type RedisTranslationCache struct {
	client *redis.Client
	prefix string
}

func NewRedisTranslationCache(cfg config.RedisConfig) (*RedisTranslationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisTranslationCache{
		client: client,
		prefix: cfg.KeyPrefix,
	}, nil
}

// BuildKey hashes the source text so arbitrarily long messages produce
// bounded redis keys.
func (c *RedisTranslationCache) BuildKey(text, targetLanguage string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s:%s:%s", c.prefix, targetLanguage, hex.EncodeToString(sum[:]))
}

func (c *RedisTranslationCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

func (c *RedisTranslationCache) Set(ctx context.Context, key, translated string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, translated, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *RedisTranslationCache) Close() error {
	return c.client.Close()
}
