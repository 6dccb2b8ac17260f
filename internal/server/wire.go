package server

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/api"
	"github.com/pageza/recipe-finder/internal/cache"
	"github.com/pageza/recipe-finder/internal/database"
	"github.com/pageza/recipe-finder/internal/render"
	"github.com/pageza/recipe-finder/internal/router"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/spoonacular"
)

// NewApp wires every component from cfg and returns a ready server.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	memo, redisClient, err := newMemo(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	source := spoonacular.NewClient(cfg, memo, logger)
	formatter := service.NewRecipeFormatter(cfg, logger)
	finder := service.NewRecipeFinder(source, formatter, logger)
	handler := api.NewRecipeHandler(finder, render.New(), logger)

	srv := New(cfg, router.SetupRouter(cfg, handler, logger), logger)
	if redisClient != nil {
		srv.onShutdown = append(srv.onShutdown, redisClient.Close)
	}
	return srv, nil
}

// newMemo picks the memo store: Redis when REDIS_URL is set, otherwise the
// in-memory LRU. A disabled cache yields a nil memo.
func newMemo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*cache.Memo, *redis.Client, error) {
	if !cfg.CacheEnabled {
		logger.Info("response cache disabled")
		return nil, nil, nil
	}

	client, err := database.NewRedisClient(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up cache: %w", err)
	}

	var store cache.Store
	if client != nil {
		store = cache.NewRedisStore(client, cfg.CacheTTL)
	} else {
		store = cache.NewMemoryStore(cfg.CacheCapacity, cfg.CacheTTL)
		logger.Info("using in-memory response cache",
			zap.Int("capacity", cfg.CacheCapacity),
			zap.Duration("ttl", cfg.CacheTTL),
		)
	}
	return cache.NewMemo(store, logger.Named("cache")), client, nil
}
