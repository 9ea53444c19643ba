package cohort

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pable/go-ulti-metrics/internal/model"
)

// redisClient is the subset of *redis.Client used by RedisCache.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache stores cohort ID lists as JSON under prefix+key with a Redis TTL.
// A Redis outage degrades to recomputing on every call.
type RedisCache struct {
	client   redisClient
	prefix   string
	logger   zerolog.Logger
	observer Observer
}

func NewRedisCache(client redisClient, prefix string, logger zerolog.Logger, observer Observer) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, logger: logger, observer: observer}
}

func (c *RedisCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]model.PlayerID, error) {
	fullKey := c.prefix + key

	raw, err := c.client.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		var ids []model.PlayerID
		jerr := json.Unmarshal(raw, &ids)
		if jerr == nil {
			if c.observer != nil {
				c.observer.CacheHit(key)
			}
			return ids, nil
		}
		c.logger.Warn().Err(jerr).Str("key", fullKey).Msg("discarding undecodable cohort entry")
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn().Err(err).Str("key", fullKey).Msg("redis get failed, recomputing cohort")
	}
	if c.observer != nil {
		c.observer.CacheMiss(key)
	}

	ids, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, fullKey, data, ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", fullKey).Msg("redis set failed")
	}
	return ids, nil
}
