package database

import (
	"github.com/lshigami/Ocelots/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient builds the cache client. Returns nil when REDIS_ADDR is not
// configured; cache consumers treat a nil client as "no cache".
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("No REDIS_ADDR configured, running without cache")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis cache configured")
	return client
}
