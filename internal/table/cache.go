package table

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"covid-dash/internal/metrics"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type cached struct {
	t       *Table
	modTime time.Time
	size    int64
}

// 文档注释：带缓存的表加载器
// 背景：国家页面每次点击都要读取两份文件；热点国家反复读取时以进程内 LRU 复用已解析的表。
// 约束：以路径为键；文件修改时间或大小变化即视为失效；TTL 到期后重新读取。Table 本身不可变，可安全共享。
type CachingLoader struct {
	next Loader
	lru  *expirable.LRU[string, cached]
}

// NewCachingLoader：size 为最大条目数，ttl<=0 表示不过期
func NewCachingLoader(next Loader, size int, ttl time.Duration) *CachingLoader {
	if next == nil {
		next = FileLoader{}
	}
	return &CachingLoader{next: next, lru: expirable.NewLRU[string, cached](size, nil, ttl)}
}

func (c *CachingLoader) Load(path string) (*Table, error) {
	fi, err := os.Stat(path)
	if err != nil {
		c.lru.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return c.next.Load(path)
	}
	if e, ok := c.lru.Get(path); ok && e.modTime.Equal(fi.ModTime()) && e.size == fi.Size() {
		metrics.TableCacheHitsTotal.Inc()
		return e.t, nil
	}
	metrics.TableCacheMissesTotal.Inc()
	t, err := c.next.Load(path)
	if err != nil {
		c.lru.Remove(path)
		return nil, err
	}
	c.lru.Add(path, cached{t: t, modTime: fi.ModTime(), size: fi.Size()})
	return t, nil
}

// Invalidate：移除单个路径，供文件监听在变更时调用
func (c *CachingLoader) Invalidate(path string) { c.lru.Remove(path) }

func (c *CachingLoader) Purge() { c.lru.Purge() }

func (c *CachingLoader) Len() int { return c.lru.Len() }
