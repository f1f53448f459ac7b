// 包 api：集中注册页面与 JSON 接口路由以解耦主入口
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"covid-dash/internal/app"
	"covid-dash/internal/geo"
	"covid-dash/internal/nav"
	"covid-dash/internal/pagecache"
	"covid-dash/internal/store"
)

// Deps：路由依赖；Store / Locator / Cache 为 nil 时对应功能关闭
type Deps struct {
	State      *app.State
	Sessions   *nav.Sessions
	Store      *store.Store
	Locator    *geo.Locator
	Cache      *pagecache.Cache
	AdminToken string
	Log        *slog.Logger
}

func (d *Deps) log() *slog.Logger {
	if d.Log == nil {
		return slog.Default()
	}
	return d.Log
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
