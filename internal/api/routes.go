package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"covid-dash/internal/dataset"
	"covid-dash/internal/geo"
	"covid-dash/internal/layout"
	"covid-dash/internal/metrics"
	"covid-dash/internal/nav"
	"covid-dash/internal/store"
)

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 API_BASE 前缀
func BuildRoutes(d *Deps) *http.ServeMux {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/layout", d.handleLayout)
	apiMux.HandleFunc("/countries", d.handleCountries)
	apiMux.HandleFunc("/summary", d.handleSummary)
	apiMux.HandleFunc("/stats", d.handleStats)
	apiMux.HandleFunc("/locate", d.handleLocate)
	apiMux.HandleFunc("/reload", d.handleReload)
	return apiMux
}

type layoutResponse struct {
	Mode    string       `json:"mode"`
	Country string       `json:"country,omitempty"`
	Version uint64       `json:"version"`
	Tree    *layout.Node `json:"tree"`
}

// /layout?path=&click=：与页面路由共用会话控制器，返回本次导航发出的树
// 约束：出现 click 参数即视为一次点击（空值按无标签点击处理）
func (d *Deps) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctl := d.Sessions.FromRequest(w, r)
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		path = "/"
	}
	tree := ctl.Navigate(path, clickFrom(r))
	mode, country := ctl.State()
	writeJSON(w, http.StatusOK, layoutResponse{Mode: mode.String(), Country: country, Version: d.State.Version(), Tree: tree})
}

type countryEntry struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	Path    string `json:"path"`
}

func (d *Deps) handleCountries(w http.ResponseWriter, r *http.Request) {
	names, err := d.State.Countries()
	if err != nil {
		d.log().Error("countries_error", "err", err)
		writeError(w, http.StatusInternalServerError, "countries unavailable")
		return
	}
	out := make([]countryEntry, 0, len(names))
	for _, n := range names {
		out = append(out, countryEntry{Name: n, Display: dataset.DisplayName(n), Path: nav.CountryPath(n)})
	}
	writeJSON(w, http.StatusOK, out)
}

type summaryResponse struct {
	layout.Summary
	TotalCasesText  string    `json:"total_cases_text"`
	TotalDeathsText string    `json:"total_deaths_text"`
	NewCasesText    string    `json:"new_cases_text"`
	NewCasesLabel   string    `json:"new_cases_label"`
	Version         uint64    `json:"version"`
	LoadedAt        time.Time `json:"loaded_at"`
}

func (d *Deps) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap := d.State.Snapshot()
	s := snap.Summary
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:         s,
		TotalCasesText:  s.TotalCasesText(),
		TotalDeathsText: s.TotalDeathsText(),
		NewCasesText:    s.NewCasesText(),
		NewCasesLabel:   s.NewCasesLabel(),
		Version:         snap.Version,
		LoadedAt:        snap.LoadedAt,
	})
}

type statsResponse struct {
	Totals store.Totals          `json:"totals"`
	Top    []store.CountryViews `json:"top"`
}

// /stats?limit=：浏览量排行；未启用 PostgreSQL 时返回 503
func (d *Deps) handleStats(w http.ResponseWriter, r *http.Request) {
	if d.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "stats disabled")
		return
	}
	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	ctx := r.Context()
	top, err := d.Store.TopCountries(ctx, limit)
	if err != nil {
		d.log().Error("stats_error", "err", err)
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	totals, err := d.Store.GetTotals(ctx)
	if err != nil {
		d.log().Error("stats_error", "err", err)
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	if top == nil {
		top = []store.CountryViews{}
	}
	writeJSON(w, http.StatusOK, statsResponse{Totals: totals, Top: top})
}

type locateResponse struct {
	geo.Result
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
}

// /locate?ip=：访客国家；available 表示数据目录中存在该国家的分表
func (d *Deps) handleLocate(w http.ResponseWriter, r *http.Request) {
	res, err := d.Locator.Country(getClientIP(r))
	switch {
	case errors.Is(err, geo.ErrDisabled):
		metrics.LocateRequestsTotal.WithLabelValues("disabled").Inc()
		writeError(w, http.StatusServiceUnavailable, "geoip disabled")
		return
	case errors.Is(err, geo.ErrBadIP):
		metrics.LocateRequestsTotal.WithLabelValues("bad_ip").Inc()
		writeError(w, http.StatusBadRequest, "invalid ip")
		return
	case errors.Is(err, geo.ErrNotFound):
		metrics.LocateRequestsTotal.WithLabelValues("not_found").Inc()
		writeError(w, http.StatusNotFound, "ip not found")
		return
	case err != nil:
		metrics.LocateRequestsTotal.WithLabelValues("error").Inc()
		d.log().Error("locate_error", "ip", res.IP, "err", err)
		writeError(w, http.StatusInternalServerError, "locate failed")
		return
	}
	metrics.LocateRequestsTotal.WithLabelValues("ok").Inc()
	out := locateResponse{Result: res}
	if p, err := d.State.Paths().Country(res.Country); err == nil {
		if _, err := os.Stat(p); err == nil {
			out.Available = true
			out.Path = nav.CountryPath(res.Country)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// /reload：重新读取全局表；需要 x-admin-token
// 约束：未配置 ADMIN_TOKEN 时始终拒绝
func (d *Deps) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	t := r.Header.Get("x-admin-token")
	if t == "" || d.AdminToken == "" || t != d.AdminToken {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := d.State.Reload(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"version": d.State.Version()})
}
