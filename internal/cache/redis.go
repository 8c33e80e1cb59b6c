package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/logger"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// KeyPrefix namespaces every key written to Redis.
const KeyPrefix = "archsim:result:"

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration

	// Client overrides Addr, Password and DB when set.
	Client *redis.Client
}

// RedisCache shares outcomes between daemon instances. Every call goes
// through a circuit breaker; while it is open, reads report a miss and
// writes are dropped.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
}

// NewRedisCache connects lazily; no I/O happens until the first call.
func NewRedisCache(opts RedisOptions) *RedisCache {
	client := opts.Client
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "result-cache",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &RedisCache{client: client, ttl: opts.TTL, breaker: breaker}
}

// Get reads and decodes an outcome.
func (c *RedisCache) Get(ctx context.Context, key string) (*models.RunOutcome, bool, error) {
	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.Get(ctx, KeyPrefix+key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	outcome, err := decode(raw.([]byte))
	if err != nil {
		return nil, false, err
	}
	return outcome, true, nil
}

// Set writes an outcome with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, outcome *models.RunOutcome) error {
	data, err := encode(outcome)
	if err != nil {
		return err
	}
	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, KeyPrefix+key, data, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// BreakerState reports the circuit breaker state.
func (c *RedisCache) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
