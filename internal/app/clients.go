package app

import (
	"os"
	"strings"

	"github.com/leap-pm/ads-service/internal/clients/redis"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

type Clients struct {
	AdCache redis.AdCache
}

// wireClients connects optional infrastructure. A missing REDIS_ADDR means
// the service runs without the ad pool cache.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var cache redis.AdCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redis.NewAdCache(log)
		if err != nil {
			log.Warn("Redis ad cache unavailable, serving without cache", "error", err)
		} else {
			cache = c
		}
	}

	return Clients{AdCache: cache}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.AdCache != nil {
		_ = c.AdCache.Close()
	}
}
