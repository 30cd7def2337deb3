// Package cache 课程目录的 Redis 缓存，未启用时所有操作直接透传。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"k8s.io/klog/v2"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache miss")

type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache client 传 nil 时返回禁用缓存的实例
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) Get(ctx context.Context, key string, dest any) error {
	if c.client == nil {
		return ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			klog.V(6).Infof("缓存读取失败 key=%s: %v", key, err)
		}
		return ErrMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *CatalogCache) Set(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		klog.Errorf("缓存序列化失败 key=%s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		klog.V(6).Infof("缓存写入失败 key=%s: %v", key, err)
	}
}

// Invalidate 删除一批缓存键，课程、模块或内容变更后调用
func (c *CatalogCache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		klog.V(6).Infof("缓存失效失败: %v", err)
	}
}

// KeyCourseList 未过滤课程目录的缓存键
const KeyCourseList = "catalog:courses"

// KeyCourseDetail 单课程详情的缓存键
func KeyCourseDetail(slug string) string {
	return "catalog:course:" + slug
}
