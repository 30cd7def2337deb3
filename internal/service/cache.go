package service

import "context"

// catalogCache 课程目录缓存的读写与失效，由 pkg/cache.CatalogCache 实现
type catalogCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any)
	Invalidate(ctx context.Context, keys ...string)
}
