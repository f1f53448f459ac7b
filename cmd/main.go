// 程序入口：仅负责读取配置、初始化依赖并启动服务；路由注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covid-dash/internal/api"
	"covid-dash/internal/app"
	"covid-dash/internal/config"
	"covid-dash/internal/dataset"
	"covid-dash/internal/geo"
	"covid-dash/internal/ingest"
	"covid-dash/internal/logger"
	"covid-dash/internal/metrics"
	"covid-dash/internal/middleware"
	"covid-dash/internal/migrate"
	"covid-dash/internal/nav"
	"covid-dash/internal/pagecache"
	"covid-dash/internal/store"
	"covid-dash/internal/table"
	"covid-dash/internal/utils"
	"covid-dash/internal/version"
)

func main() {
	config.LoadEnvFiles()
	cfg := config.FromEnv()
	// 日志初始化
	l := logger.SetupWith(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	l.Debug("log_init_ok")
	l.Debug("config_api_base", "base", cfg.APIBase)
	l.Debug("config_data_dir", "dir", cfg.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := dataset.Paths{DataDir: cfg.DataDir}
	var loader table.Loader = table.FileLoader{}
	if cfg.TableCacheSize > 0 {
		loader = table.NewCachingLoader(table.FileLoader{}, cfg.TableCacheSize, cfg.TableCacheTTL)
		l.Info("table_cache_enabled", "size", cfg.TableCacheSize, "ttl", cfg.TableCacheTTL)
	}
	st, err := app.New(app.Options{Paths: paths, Loader: loader, Seed: cfg.ColorSeed, Log: l})
	if err != nil {
		l.Error("startup_error", "err", err)
		os.Exit(1)
	}
	watching := false
	if cfg.WatchData {
		if err := st.Watch(ctx); err != nil {
			l.Error("watch_error", "err", err)
		} else {
			watching = true
		}
	}

	if cfg.RefreshEnable {
		tz, err := time.LoadLocation(cfg.RefreshTZ)
		if err != nil {
			l.Warn("refresh_tz_invalid", "tz", cfg.RefreshTZ, "err", err)
			tz = time.UTC
		}
		src := cfg.SourceURL
		if src == "" {
			src = dataset.DefaultSourceURL
		}
		job := &ingest.Job{Paths: paths, URL: src, Client: &http.Client{Timeout: 10 * time.Minute}}
		if !watching {
			// 未开启文件监听时由任务自身触发重载
			job.Reload = st.Reload
		}
		ingest.StartDaily(ctx, job, tz, cfg.RefreshHour)
	}

	deps := &api.Deps{
		State:      st,
		Sessions:   nav.NewSessions(st, l, cfg.SessionTTL, cfg.SessionMax),
		AdminToken: cfg.AdminToken,
		Log:        l,
	}

	if cfg.PGEnable {
		db, err := utils.OpenPostgres(cfg.PG)
		if err != nil {
			l.Error("db_open_error", "err", err)
		} else if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
			_ = db.Close()
		} else if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			_ = db.Close()
		} else {
			l.Info("db_ping_ok")
			deps.Store = store.AttachDB(db)
			defer deps.Store.Close()
		}
	} else {
		l.Info("stats_disabled")
	}

	if cfg.RedisEnable {
		rc := utils.OpenRedis(cfg.Redis)
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
			_ = rc.Close()
		} else {
			l.Info("redis_ping_ok")
			deps.Cache = pagecache.New(rc, cfg.PageCacheTTL)
			defer rc.Close()
		}
	} else {
		l.Info("redis_disabled")
	}

	if cfg.GeoIPPath != "" {
		loc, err := geo.Open(cfg.GeoIPPath)
		if err != nil {
			l.Error("geoip_open_error", "err", err)
		} else {
			md := loc.Metadata()
			l.Info("geoip_ready", "type", md.DatabaseType, "build", time.Unix(int64(md.BuildEpoch), 0).UTC().Format(time.DateOnly))
			deps.Locator = loc
			defer loc.Close()
		}
	}

	mux := http.NewServeMux()
	// 文档注释：构建路由（携带状态对象与可选后端）
	apiMux := api.BuildRoutes(deps)
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.HandleFunc("/", deps.ServePage)

	// NOTE: 向前端暴露 API 基础路径，避免硬编码
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + cfg.APIBase + "'\n"))
		_, _ = w.Write([]byte("window.__DATA_SOURCE__='Our World in Data'\n"))
		_, _ = w.Write([]byte("window.__COMMIT_SHA__='" + version.Commit + "'"))
	})

	handler := logger.AccessMiddleware(l, cfg.APIBase+"/metrics")(mux)
	handler = middleware.RateLimit(cfg.RateLimitEnabled, cfg.RateLimitQPS, handler)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()
	l.Info("listening", "addr", cfg.Addr, "commit", version.Commit)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
}
