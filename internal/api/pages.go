package api

import (
	"bytes"
	"net/http"
	"strings"

	"covid-dash/internal/dataset"
	"covid-dash/internal/logger"
	"covid-dash/internal/metrics"
	"covid-dash/internal/nav"
	"covid-dash/internal/pagecache"
	"covid-dash/internal/render"
)

const pageTitle = "Covid-19 Dashboard"

func clickFrom(r *http.Request) *nav.ClickEvent {
	q := r.URL.Query()
	if !q.Has("click") {
		return nil
	}
	return nav.Click(q.Get("click"))
}

// 文档注释：页面路由（/ 与 /country/<name>）
// 背景：浏览器每次请求都交给会话控制器导航，控制器决定发出的树；地图点击以 ?click= 传入。
// 约束：点击成功后 303 跳转到规范的国家路径，刷新与分享链接不再重复点击；
// 点击失败时控制器重发上一次的树，页面保持不变。
func (d *Deps) ServePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Path
	if path != "/" && !strings.HasPrefix(path, nav.CountryPrefix) {
		http.NotFound(w, r)
		return
	}
	ctl := d.Sessions.FromRequest(w, r)
	click := clickFrom(r)
	// 先取版本再导航，重载发生在两者之间时缓存键只会偏旧
	version := d.State.Version()
	root := ctl.Navigate(path, click)
	mode, country := ctl.State()
	if click != nil && mode == nav.Detail && country == click.Label() {
		http.Redirect(w, r, nav.CountryPath(country), http.StatusSeeOther)
		return
	}
	// fresh：本次请求按路径正常构建了树（不是重发的旧树），只有这种结果写入页面缓存
	fresh := click == nil && mode == nav.Home && path == "/"
	if name, ok := nav.CountryFromPath(path); ok && click == nil && mode == nav.Detail && name == country {
		fresh = true
		if err := d.Store.RecordView(r.Context(), country); err != nil {
			d.log().Error("stats_record_error", "country", country, "err", err)
		}
	}

	ctx := r.Context()
	key := pagecache.Key(version, mode.String(), country)
	var body []byte
	ok := false
	cacheState := "skip"
	if fresh && d.Cache != nil {
		body, ok = d.Cache.Get(ctx, key)
		cacheState = "miss"
		if ok {
			cacheState = "hit"
		}
	}
	if !ok {
		title := pageTitle
		if mode == nav.Detail {
			title += " - " + dataset.DisplayName(country)
		}
		var buf bytes.Buffer
		if err := render.Page(&buf, title, root); err != nil {
			d.log().Error("page_render_error", "mode", mode.String(), "country", country, "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		body = buf.Bytes()
		if fresh {
			d.Cache.Set(ctx, key, body)
		}
	}
	metrics.PageRendersTotal.WithLabelValues(mode.String()).Inc()
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.Header().Set(logger.PageCacheHeader, cacheState)
	_, _ = w.Write(body)
}
