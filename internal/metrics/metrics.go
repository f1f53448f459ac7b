package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PageRendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dash_page_renders_total",
		Help: "Total number of rendered dashboard pages by page kind",
	}, []string{"page"})
	LayoutBuildDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dash_layout_build_duration_ms",
		Help:    "Layout tree construction duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000},
	}, []string{"page"})
	NavigationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dash_navigation_total",
		Help: "Navigation events by outcome (home, detail, fallback)",
	}, []string{"outcome"})
	TableLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dash_table_loads_total",
		Help: "Table file loads by result",
	}, []string{"result"})
	TableCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dash_table_cache_hits_total",
		Help: "Total in-process table cache hits",
	})
	TableCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dash_table_cache_misses_total",
		Help: "Total in-process table cache misses",
	})
	PageCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dash_page_cache_hits_total",
		Help: "Total redis page cache hits",
	})
	PageCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dash_page_cache_misses_total",
		Help: "Total redis page cache misses",
	})
	DataReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dash_data_reloads_total",
		Help: "Global table reloads by result",
	}, []string{"result"})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dash_active_sessions",
		Help: "Number of live navigation sessions",
	})
	LocateRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dash_locate_requests_total",
		Help: "Visitor geolocation lookups by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(PageRendersTotal)
	prometheus.MustRegister(LayoutBuildDurationMs)
	prometheus.MustRegister(NavigationTotal)
	prometheus.MustRegister(TableLoadsTotal)
	prometheus.MustRegister(TableCacheHitsTotal)
	prometheus.MustRegister(TableCacheMissesTotal)
	prometheus.MustRegister(PageCacheHitsTotal)
	prometheus.MustRegister(PageCacheMissesTotal)
	prometheus.MustRegister(DataReloadsTotal)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(LocateRequestsTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 {API_BASE}/metrics，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
