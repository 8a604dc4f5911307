package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallretail/tillpoint/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideLoginLimiter(cfg config.Config, log *zap.Logger) *LoginLimiter {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	log.Info("login rate limiting enabled", zap.String("redis_addr", cfg.RedisAddr))
	return NewLoginLimiter(client)
}

var Module = fx.Module("rate.limit",
	fx.Provide(provideLoginLimiter),
)
