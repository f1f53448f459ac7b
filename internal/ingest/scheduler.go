// 包 ingest：调度每日的数据刷新任务（下载总表、拆分、重载全局表），运行在服务进程内的后台协程
package ingest

import (
	"context"
	"net/http"
	"time"

	"covid-dash/internal/dataset"
	"covid-dash/internal/logger"
)

// Job：一次完整的刷新
type Job struct {
	Paths  dataset.Paths
	URL    string
	Client *http.Client
	// Reload 为空时只更新文件，交给文件监听触发重载
	Reload func() error
}

// Run：任一步失败即返回，已有文件保持不变（下载与拆分都是先写临时文件再改名）
func (j *Job) Run(ctx context.Context) error {
	if _, err := j.Paths.Fetch(ctx, j.Client, j.URL); err != nil {
		return err
	}
	if _, err := j.Paths.Split(); err != nil {
		return err
	}
	if j.Reload != nil {
		return j.Reload()
	}
	return nil
}

// nextAt：now 之后最近的 hour 整点（loc 时区）
// 约束：恰好等于整点时取下一天，避免同一时刻重复执行
func nextAt(now time.Time, loc *time.Location, hour int) time.Time {
	now = now.In(loc)
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// StartDaily：每天 hour 点（loc 时区）执行一次刷新
// 背景：OWID 每日更新总表；错误由日志记录，任务继续调度
// 约束：ctx 取消后退出；hour 超出 0-23 时按 3 点处理
func StartDaily(ctx context.Context, job *Job, loc *time.Location, hour int) {
	l := logger.L()
	if loc == nil {
		loc = time.UTC
	}
	if hour < 0 || hour > 23 {
		hour = 3
	}
	go func() {
		for {
			next := nextAt(time.Now(), loc, hour)
			l.Info("ingest_scheduled", "next", next)
			t := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
			l.Info("ingest_start", "url", job.URL)
			if err := job.Run(ctx); err != nil {
				l.Error("ingest_error", "err", err)
			} else {
				l.Info("ingest_done")
			}
		}
	}()
}
