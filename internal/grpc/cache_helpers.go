package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	cacheWriteTimeout = 5 * time.Second
	maxTTLJitter      = 15 * time.Second
)

// reportCache serves computed gradebook views through a Cacher. Keys embed
// the store revision, so an entry is valid for as long as it lives and
// concurrent misses on one key share a single computation.
type reportCache struct {
	cache  Cacher
	group  singleflight.Group
	ttl    time.Duration
	logger *zap.Logger
}

func newReportCache(c Cacher, ttl time.Duration, logger *zap.Logger) *reportCache {
	return &reportCache{cache: c, ttl: ttl, logger: logger}
}

// expiry spreads entries written together over ±maxTTLJitter.
func (rc *reportCache) expiry() time.Duration {
	if rc.ttl <= 2*maxTTLJitter {
		return rc.ttl
	}
	return rc.ttl + time.Duration(rand.Int63n(int64(2*maxTTLJitter))) - maxTTLJitter
}

// store writes value under key without blocking the caller.
func (rc *reportCache) store(key string, value any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()

		if err := rc.cache.Set(ctx, key, value, rc.expiry()); err != nil {
			rc.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
			return
		}
		rc.logger.Debug("report cached", zap.String("key", key))
	}()
}

// lookup reports whether key was served from the cache. Cache failures
// count as misses.
func (rc *reportCache) lookup(ctx context.Context, key string, dest any) bool {
	err := rc.cache.Get(ctx, key, dest)
	switch {
	case err == nil:
		rc.logger.Debug("cache hit", zap.String("key", key))
		return true
	case errors.Is(err, redis.Nil):
		rc.logger.Debug("cache miss", zap.String("key", key))
	default:
		rc.logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}
	return false
}

// cachedReport returns the value stored under key, computing and caching it
// with load on a miss.
func cachedReport[T any](ctx context.Context, rc *reportCache, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if rc.lookup(ctx, key, &out) {
		return out, nil
	}

	v, err, shared := rc.group.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		rc.store(key, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		rc.logger.Debug("singleflight shared result", zap.String("key", key))
	}

	value, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cached report %q has type %T", key, v)
	}
	return value, nil
}
