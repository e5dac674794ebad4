// Package cache owns the Redis client used for rate limiting and the
// inventory cache. The application runs without Redis, it just loses both.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ourcircle/internal/middleware"
	"ourcircle/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// commandMetrics counts failed Redis commands by name so an outage shows up
// on the dashboard before members notice missing rate limits.
type commandMetrics struct{}

func (commandMetrics) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (commandMetrics) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (commandMetrics) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis connects to the address or redis:// URL in addr. A failed
// connection leaves the client nil rather than aborting startup.
func InitRedis(addr string) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("Invalid REDIS_URL, continuing without cache",
				slog.String("url", addr),
				slog.String("error", err.Error()),
			)
			client = nil
			return
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client = redis.NewClient(opts)
	client.AddHook(commandMetrics{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, continuing without cache",
			slog.String("error", err.Error()),
		)
		client = nil
		return
	}
	middleware.Logger.Info("Redis connected")
}

// GetClient returns the current Redis client, nil when Redis is down.
func GetClient() *redis.Client {
	return client
}

// SetClient overrides the Redis client. Used by tests.
func SetClient(c *redis.Client) {
	client = c
}
