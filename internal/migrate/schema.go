// 包 migrate：首次运行自动创建浏览统计所需的表与索引
package migrate

import (
	"context"
	"database/sql"

	"covid-dash/internal/logger"
)

// Statements：建表语句按顺序执行，均为幂等语句
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS _dash_views (
		country TEXT PRIMARY KEY,
		views BIGINT NOT NULL DEFAULT 0,
		last_seen TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS _dash_stats_daily (
		day DATE NOT NULL,
		country TEXT NOT NULL,
		views BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (day, country)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dash_views_views ON _dash_views(views DESC)`,
}

// 背景：服务启动时调用，保证统计写入前表已存在
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；任一语句失败立即返回
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range Statements {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
