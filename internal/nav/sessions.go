package nav

import (
	"log/slog"
	"net/http"
	"time"

	"covid-dash/internal/metrics"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionCookie：浏览器会话 cookie 名
const SessionCookie = "dash_sid"

// DefaultMaxSessions：会话数上限的默认值
const DefaultMaxSessions = 10000

// 文档注释：按浏览器会话隔离的控制器集合
// 背景：导航状态（上一次发出的树）属于单个浏览器；不同会话互不影响，且可并发处理。
// 约束：
// 1) 会话存放在有界 LRU 中，超过 size 时淘汰最久未访问的会话，空闲超过 ttl 的会话过期；
// 2) 新会话的控制器不预先构建首页，不带 cookie 的请求（curl、爬虫）只付出一次导航的开销；
// 3) 会话 ID 使用随机 UUID，不携带任何用户信息。
type Sessions struct {
	pages Pages
	log   *slog.Logger
	ttl   time.Duration
	lru   *expirable.LRU[string, *Controller]
}

func NewSessions(pages Pages, log *slog.Logger, ttl time.Duration, size int) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sessions{pages: pages, log: log, ttl: ttl, lru: expirable.NewLRU[string, *Controller](size, nil, ttl)}
}

// Get：返回 id 对应的控制器并续期；id 为空、未知或已过期时新建会话并返回新 id
func (s *Sessions) Get(id string) (*Controller, string) {
	if id != "" {
		if ctl, ok := s.lru.Get(id); ok {
			// expirable 的 Get 不续期，重新 Add 以刷新过期时间
			s.lru.Add(id, ctl)
			return ctl, id
		}
	}
	ctl := newLazy(s.pages, s.log)
	id = uuid.NewString()
	if s.lru.Add(id, ctl) {
		s.log.Debug("session_evict_oldest")
	}
	n := s.lru.Len()
	metrics.ActiveSessions.Set(float64(n))
	s.log.Debug("session_new", "sid", id, "active", n)
	return ctl, id
}

// FromRequest：从 cookie 取会话；新建会话时写回 cookie
func (s *Sessions) FromRequest(w http.ResponseWriter, r *http.Request) *Controller {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	ctl, nid := s.Get(id)
	if nid != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    nid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.ttl / time.Second),
		})
	}
	return ctl
}

// Len：包含已过期但尚未清理的会话
func (s *Sessions) Len() int { return s.lru.Len() }
