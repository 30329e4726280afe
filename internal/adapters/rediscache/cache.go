// Package rediscache caches computed profiles in Redis.
package rediscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ewilliams-labs/musicdna/internal/core/domain"
	"github.com/ewilliams-labs/musicdna/internal/core/ports"
)

// DefaultTTL is how long a computed profile stays cached.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "musicdna:profile:"

// Cache implements ports.ProfileCache on a Redis client.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.ProfileCache = (*Cache)(nil)

// New wraps an existing client. A non-positive ttl uses DefaultTTL.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Dial connects to the redis:// URL and verifies the server answers.
func Dial(ctx context.Context, rawURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("rediscache: invalid url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("rediscache: ping failed: %w", err)
	}
	return New(client, ttl), nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping verifies the server answers.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// key hashes the token so raw credentials never reach Redis.
func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, token string) (*domain.MusicDNA, error) {
	data, err := c.client.Get(ctx, key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rediscache: get: %w", err)
	}

	var dna domain.MusicDNA
	if err := json.Unmarshal(data, &dna); err != nil {
		return nil, fmt.Errorf("rediscache: decode: %w", err)
	}
	return &dna, nil
}

func (c *Cache) Set(ctx context.Context, token string, dna domain.MusicDNA) error {
	data, err := json.Marshal(dna)
	if err != nil {
		return fmt.Errorf("rediscache: encode: %w", err)
	}
	if err := c.client.Set(ctx, key(token), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("rediscache: set: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("rediscache: delete: %w", err)
	}
	return nil
}
