// Package throttle limits failed login attempts with counters kept in Redis.
package throttle

import (
	"context"
	"log/slog"
	"time"

	"shoponline/config"
	"shoponline/internal/domain/entity"
	"shoponline/internal/domain/lifecycle"
	"shoponline/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const keyPrefix = "login:failures:"

// Params defines the dependencies of the login throttle.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewLoginThrottle returns a Redis-backed throttle, or a no-op one when Redis is not configured.
func NewLoginThrottle(params Params) service.LoginThrottle {
	cfg := params.Config
	if cfg.Redis == nil || cfg.Redis.Addr == "" || cfg.Auth == nil || cfg.Auth.LoginThrottle.MaxAttempts <= 0 {
		params.Logger.Info("Login throttle disabled")

		return noopThrottle{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			return errors.Wrap(client.Ping(ctx).Err(), "failed to ping redis")
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewRedisThrottle(client, cfg.Auth.LoginThrottle.MaxAttempts, cfg.Auth.LoginThrottle.Window)
}

// RedisThrottle counts failures per key in a fixed window that starts at the first failure.
type RedisThrottle struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

// NewRedisThrottle creates a throttle over any Redis client.
func NewRedisThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *RedisThrottle {
	return &RedisThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

func failureKey(key string) string {
	return keyPrefix + entity.UsernameKey(key)
}

// Allow reports whether the key is still under its failure budget.
func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, error) {
	count, err := t.client.Get(ctx, failureKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		// fail open: an unavailable Redis must not lock everyone out
		return true, errors.Wrap(err, "failed to read login failures")
	}

	return count < t.maxAttempts, nil
}

// RecordFailure increments the counter, starting the window on the first failure.
func (t *RedisThrottle) RecordFailure(ctx context.Context, key string) error {
	redisKey := failureKey(key)

	count, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return errors.Wrap(err, "failed to record login failure")
	}

	// the window starts with the first failure and is not extended by later ones
	if count == 1 {
		if err := t.client.Expire(ctx, redisKey, t.window).Err(); err != nil {
			return errors.Wrap(err, "failed to set login failure window")
		}
	}

	return nil
}

// Reset clears the counter after a successful login.
func (t *RedisThrottle) Reset(ctx context.Context, key string) error {
	return errors.Wrap(t.client.Del(ctx, failureKey(key)).Err(), "failed to reset login failures")
}

type noopThrottle struct{}

func (noopThrottle) Allow(context.Context, string) (bool, error) { return true, nil }

func (noopThrottle) RecordFailure(context.Context, string) error { return nil }

func (noopThrottle) Reset(context.Context, string) error { return nil }
