package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"sameshi/cache"
)

// CachedSource memoizes another source's tables in a key/value cache.
// Cache failures are logged and fall through to the inner source.
type CachedSource struct {
	Inner  Source
	Cache  cache.Store
	Key    string
	TTL    time.Duration
	Logger *zap.Logger
}

const defaultCatalogCacheKey = "sameshi:catalog:tables"

func (s CachedSource) Load(ctx context.Context) (Tables, error) {
	key := s.Key
	if key == "" {
		key = defaultCatalogCacheKey
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	raw, err := s.Cache.Get(ctx, key)
	switch {
	case err == nil:
		var t Tables
		if err := json.Unmarshal([]byte(raw), &t); err == nil {
			logger.Debug("catalog served from cache", zap.String("key", key))
			return t, nil
		}
		logger.Warn("discarding unreadable cached catalog", zap.String("key", key))
	case !errors.Is(err, cache.ErrMiss):
		logger.Warn("catalog cache read failed", zap.Error(err))
	}

	t, err := s.Inner.Load(ctx)
	if err != nil {
		return Tables{}, err
	}

	b, err := json.Marshal(t)
	if err == nil {
		err = s.Cache.Set(ctx, key, string(b), s.TTL)
	}
	if err != nil {
		logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return t, nil
}
