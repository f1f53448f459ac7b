// 包 store: 提供与 PostgreSQL 的数据访问层，记录国家详情页浏览量并读取排行
package store

import (
	"context"
	"database/sql"
	"fmt"

	"covid-dash/internal/logger"

	_ "github.com/lib/pq"
)

// Store: 数据库访问入口，持有连接池
// 约束：nil *Store 上的所有方法都是空操作，PostgreSQL 关闭时直接传 nil
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// RecordView: 国家页面被展示一次时累加总计与当日计数
func (s *Store) RecordView(ctx context.Context, country string) error {
	if s == nil || country == "" {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO _dash_views(country, views, last_seen) VALUES($1, 1, now())
		ON CONFLICT (country) DO UPDATE SET views=_dash_views.views+1, last_seen=now()`, country); err != nil {
		return fmt.Errorf("record view %q: %w", country, err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO _dash_stats_daily(day, country, views) VALUES(current_date, $1, 1)
		ON CONFLICT (day, country) DO UPDATE SET views=_dash_stats_daily.views+1`, country); err != nil {
		return fmt.Errorf("record daily view %q: %w", country, err)
	}
	logger.L().Debug("stats_incr", "country", country)
	return nil
}

// CountryViews: 排行条目
type CountryViews struct {
	Country string `json:"country"`
	Views   int64  `json:"views"`
	Today   int64  `json:"today"`
}

// TopCountries: 按累计浏览量降序返回前 limit 个国家，附带当日浏览量
func (s *Store) TopCountries(ctx context.Context, limit int) ([]CountryViews, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.country, v.views, COALESCE(d.views, 0)
		FROM _dash_views v
		LEFT JOIN _dash_stats_daily d ON d.country = v.country AND d.day = current_date
		ORDER BY v.views DESC, v.country ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top countries: %w", err)
	}
	defer rows.Close()
	out := make([]CountryViews, 0, limit)
	for rows.Next() {
		var c CountryViews
		if err := rows.Scan(&c.Country, &c.Views, &c.Today); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("stats_top", "n", len(out))
	return out, nil
}

// Totals: 统计返回结构，包含累计与当日浏览次数
type Totals struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
}

// GetTotals: 读取全部国家的累计与当日浏览次数
func (s *Store) GetTotals(ctx context.Context) (Totals, error) {
	var t Totals
	if s == nil {
		return t, nil
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(views), 0) FROM _dash_views").Scan(&t.Total); err != nil {
		return t, fmt.Errorf("total views: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(views), 0) FROM _dash_stats_daily WHERE day=current_date").Scan(&t.Today); err != nil {
		return t, fmt.Errorf("today views: %w", err)
	}
	return t, nil
}
