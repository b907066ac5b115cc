package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const generationKey = "reports:generation"

// ReportCache stores report payloads in redis. Keys are prefixed with a
// generation counter, so Invalidate drops every cached report at once.
// A nil *ReportCache is valid and never hits.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if client == nil {
		return nil
	}
	return &ReportCache{client: client, ttl: ttl}
}

func (c *ReportCache) key(ctx context.Context, name string) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("reports:%s:%s", strconv.FormatInt(gen, 10), name), nil
}

// GetJSON decodes the cached value into dst. It reports false on a miss or
// when redis is unreachable.
func (c *ReportCache) GetJSON(ctx context.Context, name string, dst any) bool {
	if c == nil {
		return false
	}

	key, err := c.key(ctx, name)
	if err != nil {
		log.Warn().Err(err).Msg("report cache unavailable")
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("report cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("report cache entry corrupt")
		return false
	}
	return true
}

func (c *ReportCache) SetJSON(ctx context.Context, name string, v any) {
	if c == nil {
		return
	}

	key, err := c.key(ctx, name)
	if err != nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
}

// Invalidate is called after every write that changes report figures.
func (c *ReportCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		log.Warn().Err(err).Msg("report cache invalidate failed")
	}
}

func (c *ReportCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
