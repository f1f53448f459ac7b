// 包 logger：HTTP 访问日志中间件，按请求记录导航维度（路径、地图点击、跳转目标）与页面缓存结果
package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// PageCacheHeader：页面处理器写入的缓存结果（hit / miss / skip），访问日志据此记录
const PageCacheHeader = "x-page-cache"

// statusWriter：包装 ResponseWriter 以捕获状态码与写出字节数
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// 文档注释：生成访问日志中间件
// 背景：仪表盘的请求大多是地图点击触发的整页重载；点击参数、303 跳转目标与页面缓存结果放在同一条记录里，便于还原一次导航。
// 约束：
// 1) 不读取请求体；
// 2) skip 中的路径（如指标抓取）不记录；
// 3) 5xx 以 warn 级别输出，其余为 debug。
func AccessMiddleware(l *slog.Logger, skip ...string) func(http.Handler) http.Handler {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipped[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", r.RemoteAddr,
			}
			if click := r.URL.Query().Get("click"); click != "" {
				attrs = append(attrs, "click", click)
			}
			if loc := sw.Header().Get("location"); loc != "" {
				attrs = append(attrs, "redirect", loc)
			}
			if pc := sw.Header().Get(PageCacheHeader); pc != "" {
				attrs = append(attrs, "page_cache", pc)
			}
			level := slog.LevelDebug
			if sw.status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			l.Log(r.Context(), level, "http_access", attrs...)
		})
	}
}
