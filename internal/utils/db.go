package utils

import (
	"database/sql"
	"net/url"

	"covid-dash/internal/config"

	_ "github.com/lib/pq"
)

// BuildPostgresDSN：由连接参数拼装 DSN；用户名与密码按 URL 规则转义
func BuildPostgresDSN(c config.Postgres) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(c.User),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DB,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

// OpenPostgres：打开连接池；统计写入量小，默认连接数较低
// 约束：仅创建连接池，连通性由调用方 Ping 检查
func OpenPostgres(c config.Postgres) (*sql.DB, error) {
	db, err := sql.Open("postgres", BuildPostgresDSN(c))
	if err != nil {
		return nil, err
	}
	if c.MaxOpen > 0 {
		db.SetMaxOpenConns(c.MaxOpen)
	}
	if c.MaxIdle > 0 {
		db.SetMaxIdleConns(c.MaxIdle)
	}
	return db, nil
}
