package app

import (
	"fmt"

	"github.com/maulerrr/jinaq-backend/internal/clients/openai"
	"github.com/maulerrr/jinaq-backend/internal/clients/redis"
	"github.com/maulerrr/jinaq-backend/internal/logger"
)

type Clients struct {
	OpenAI openai.CompletionClient
	Cache  redis.Cache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	oa, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	// The cache is an optimization; serve from the database when redis is
	// unreachable or unconfigured.
	var cache redis.Cache
	if cfg.RedisAddr != "" {
		cache, err = redis.NewCache(log, cfg.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, catalog caching disabled", "error", err)
			cache = nil
		}
	}

	return Clients{OpenAI: oa, Cache: cache}, nil
}
