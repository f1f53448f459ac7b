// 包 utils：外部依赖（PostgreSQL / Redis）的连接工具，参数来自 config.Config
package utils

import (
	"covid-dash/internal/config"
	"covid-dash/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedis：打开 Redis 客户端
// 约束：仅创建客户端，连通性由调用方 Ping 检查
func OpenRedis(c config.Redis) *redis.Client {
	addr := c.Host + ":" + c.Port
	logger.L().Debug("redis_config", "addr", addr, "db", c.DB)
	return redis.NewClient(&redis.Options{Addr: addr, Password: c.Pass, DB: c.DB})
}
