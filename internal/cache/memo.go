package cache

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Memo serves repeated calls from a Store. Concurrent misses on the same key
// share a single call to the loader. A nil *Memo calls the loader every time.
type Memo struct {
	store  Store
	group  singleflight.Group
	logger *zap.Logger
}

// Loader produces the value for a missing key.
type Loader func(ctx context.Context) ([]byte, error)

// NewMemo creates a memoizer over store.
func NewMemo(store Store, logger *zap.Logger) *Memo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memo{store: store, logger: logger}
}

// Do returns the stored value for key, or runs load and stores its result.
// load receives a context that keeps ctx's values but is never cancelled, so
// one caller giving up does not fail the others; bound it with a client
// timeout. A caller whose ctx ends stops waiting and gets ctx.Err().
// Failed loads are not stored. Store errors are logged and otherwise
// ignored, so a broken cache degrades to direct calls.
func (m *Memo) Do(ctx context.Context, key string, load Loader) ([]byte, error) {
	if m == nil || m.store == nil {
		return load(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := m.store.Get(ctx, key)
	switch {
	case err == nil:
		m.logger.Debug("cache hit", zap.String("key", key))
		return data, nil
	case !errors.Is(err, ErrMiss):
		m.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	// The shared load outlives any single caller; each caller stops waiting
	// when its own context ends.
	ch := m.group.DoChan(key, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		data, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if err := m.store.Set(loadCtx, key, data); err != nil {
			m.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		m.logger.Debug("cache miss", zap.String("key", key), zap.Bool("shared", r.Shared))
		return r.Val.([]byte), nil
	}
}
