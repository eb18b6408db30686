package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/leap-pm/ads-service/internal/domain"
	"github.com/leap-pm/ads-service/internal/platform/envutil"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

const adPoolKey = "ads:pool:servable"

// AdPoolSnapshot is the cached form of the servable ad pool. The date window
// is re-checked against the clock after a cache read, so a snapshot near its
// TTL can still drop ads that ended in the meantime.
type AdPoolSnapshot struct {
	Ads   []*types.Ad              `json:"ads"`
	Rules []*types.AdTargetingRule `json:"rules"`
}

type AdCache interface {
	Get(ctx context.Context) (*AdPoolSnapshot, error)
	Set(ctx context.Context, snap *AdPoolSnapshot) error
	Invalidate(ctx context.Context) error
	Close() error
}

type adCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewAdCache(log *logger.Logger) (AdCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := envutil.Seconds("AD_CACHE_TTL_SECONDS", 60*time.Second)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &adCache{
		log: log.With("service", "RedisAdCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

// Get returns (nil, nil) on a cache miss.
func (c *adCache) Get(ctx context.Context) (*AdPoolSnapshot, error) {
	if c == nil || c.rdb == nil {
		return nil, fmt.Errorf("redis ad cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, adPoolKey).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap AdPoolSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// A corrupt snapshot behaves like a miss and gets overwritten.
		c.log.Warn("discarding corrupt ad pool snapshot", "error", err)
		return nil, nil
	}
	return &snap, nil
}

func (c *adCache) Set(ctx context.Context, snap *AdPoolSnapshot) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis ad cache not initialized")
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, adPoolKey, raw, c.ttl).Err()
}

func (c *adCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis ad cache not initialized")
	}
	return c.rdb.Del(ctx, adPoolKey).Err()
}

func (c *adCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
