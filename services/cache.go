package services

import (
	"context"

	"food-shop/logger"
	"food-shop/repository"

	"go.uber.org/zap"
)

// Cache access is best-effort throughout the read side: a failing cache
// degrades to a plain store read and never fails the request.

func cacheGet(ctx context.Context, cache repository.Cache, key string, dest any) bool {
	if cache == nil {
		return false
	}
	hit, err := cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn(ctx, "Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func cacheSet(ctx context.Context, cache repository.Cache, key string, value any) {
	if cache == nil {
		return
	}
	if err := cache.Set(ctx, key, value); err != nil {
		logger.Warn(ctx, "Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func cacheDelete(ctx context.Context, cache repository.Cache, keys ...string) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, keys...); err != nil {
		logger.Warn(ctx, "Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
