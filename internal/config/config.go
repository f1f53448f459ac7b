// 包 config：集中读取环境变量（可由 .env 提供），主入口只依赖该结构体
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config：服务运行参数
type Config struct {
	Addr    string
	APIBase string
	DataDir string

	ColorSeed      uint64
	TableCacheSize int
	TableCacheTTL  time.Duration
	SessionTTL     time.Duration
	SessionMax     int
	WatchData      bool
	AdminToken     string

	RateLimitEnabled bool
	RateLimitQPS     int

	RedisEnable  bool
	Redis        Redis
	PageCacheTTL time.Duration

	PGEnable bool
	PG       Postgres

	GeoIPPath string

	RefreshEnable bool
	RefreshHour   int
	RefreshTZ     string
	SourceURL     string

	LogLevel  string
	LogFormat string
}

// Postgres：访问统计库的连接参数（PG_*）
type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

// Redis：页面缓存的连接参数（REDIS_*）
type Redis struct {
	Host string
	Port string
	Pass string
	DB   int
}

// LoadEnvFiles：依次尝试加载 .env 与 data/env/.env；文件不存在时忽略
// 约束：godotenv 不覆盖已存在的环境变量，进程环境优先
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// FromEnv：读取环境变量并填充默认值；数值解析失败时回退默认值
func FromEnv() Config {
	return Config{
		Addr:             str("ADDR", ":8080"),
		APIBase:          strings.TrimSuffix(str("API_BASE", "/api"), "/"),
		DataDir:          str("DATA_DIR", "data"),
		ColorSeed:        uint64(num("COLOR_SEED", 1)),
		TableCacheSize:   num("TABLE_CACHE_SIZE", 0),
		TableCacheTTL:    seconds("TABLE_CACHE_TTL_SEC", 600),
		SessionTTL:       seconds("SESSION_TTL_SEC", 1800),
		SessionMax:       num("SESSION_MAX", 10000),
		WatchData:        flag("WATCH_DATA", true),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		RateLimitEnabled: flag("RATE_LIMIT_ENABLED", false),
		RateLimitQPS:     num("RATE_LIMIT_QPS", 200),
		RedisEnable:      flag("REDIS_ENABLE", false),
		PageCacheTTL:     seconds("PAGE_CACHE_TTL_SEC", 300),
		PGEnable:         flag("PG_ENABLE", false),
		GeoIPPath:        os.Getenv("GEOIP_PATH"),
		RefreshEnable:    flag("REFRESH_ENABLE", false),
		RefreshHour:      num("REFRESH_HOUR", 3),
		RefreshTZ:        str("REFRESH_TZ", "UTC"),
		SourceURL:        os.Getenv("SRC_URL"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		LogFormat:        os.Getenv("LOG_FORMAT"),
		Redis: Redis{
			Host: str("REDIS_HOST", "127.0.0.1"),
			Port: str("REDIS_PORT", "6379"),
			Pass: os.Getenv("REDIS_PASS"),
			DB:   num("REDIS_DB", 0),
		},
		PG: Postgres{
			Host:     str("PG_HOST", "localhost"),
			Port:     str("PG_PORT", "5432"),
			User:     str("PG_USER", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			DB:       str("PG_DB", "covid_dash"),
			SSLMode:  str("PG_SSLMODE", "disable"),
			MaxOpen:  num("PG_MAX_OPEN_CONNS", 10),
			MaxIdle:  num("PG_MAX_IDLE_CONNS", 5),
		},
	}
}

func str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func num(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func seconds(key string, def int) time.Duration {
	return time.Duration(num(key, def)) * time.Second
}

func flag(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return def
}
