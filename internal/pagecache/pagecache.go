// 包 pagecache：基于 Redis 的渲染结果缓存
// 背景：同一数据版本下，同一棵树的 HTML 完全相同；图表片段生成是页面请求里最重的部分，命中后直接返回。
// 约束：缓存仅为加速；Redis 不可用时所有操作都退化为未命中，不影响页面输出
package pagecache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"covid-dash/internal/logger"
	"covid-dash/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dash:page:"

// Client：缓存所需的 Redis 命令子集，*redis.Client 满足该接口
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Cache：nil *Cache 可直接使用，所有读取都未命中
type Cache struct {
	rc  Client
	ttl time.Duration
}

func New(rc Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rc: rc, ttl: ttl}
}

// Key：数据版本 + 页面类型 + 国家名；数据重载后版本变化，旧键自然过期
func Key(version uint64, page, country string) string {
	return fmt.Sprintf("%sv%d:%s:%s", keyPrefix, version, page, url.PathEscape(country))
}

// Get：命中返回 true；redis.Nil 与其他错误都视为未命中
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rc == nil {
		return nil, false
	}
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Error("page_cache_get_error", "key", key, "err", err)
		}
		metrics.PageCacheMissesTotal.Inc()
		return nil, false
	}
	metrics.PageCacheHitsTotal.Inc()
	return b, true
}

func (c *Cache) Set(ctx context.Context, key string, page []byte) {
	if c == nil || c.rc == nil {
		return
	}
	if err := c.rc.Set(ctx, key, page, c.ttl).Err(); err != nil {
		logger.L().Error("page_cache_set_error", "key", key, "err", err)
	}
}
