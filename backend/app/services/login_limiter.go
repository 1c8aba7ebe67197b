package services

import (
	"context"
	"time"

	"store-rating/backend/app/apperr"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// LoginLimiter throttles repeated failed logins for one e-mail address.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) error
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

type noopLimiter struct{}

// NewNoopLimiter never throttles.
func NewNoopLimiter() LoginLimiter { return noopLimiter{} }

func (noopLimiter) Allow(context.Context, string) error   { return nil }
func (noopLimiter) RecordFailure(context.Context, string) {}
func (noopLimiter) Reset(context.Context, string)         {}

// RedisLimiter counts failures in redis with a fixed window per address.
// Redis trouble never blocks a login: calls go through a circuit breaker
// and any error lets the attempt through.
type RedisLimiter struct {
	rdb    *redis.Client
	cb     *gobreaker.CircuitBreaker
	max    int64
	window time.Duration
	log    zerolog.Logger
}

func NewRedisLimiter(rdb *redis.Client, maxFailures int, window time.Duration, log zerolog.Logger) *RedisLimiter {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	st := gobreaker.Settings{
		Name:        "login-limiter",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &RedisLimiter{
		rdb:    rdb,
		cb:     gobreaker.NewCircuitBreaker(st),
		max:    int64(maxFailures),
		window: window,
		log:    log,
	}
}

func loginKey(email string) string { return "login:fail:" + email }

func (l *RedisLimiter) Allow(ctx context.Context, email string) error {
	v, err := l.cb.Execute(func() (interface{}, error) {
		n, err := l.rdb.Get(ctx, loginKey(email)).Int64()
		if err == redis.Nil {
			return int64(0), nil
		}
		return n, err
	})
	if err != nil {
		l.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		return nil
	}
	if v.(int64) >= l.max {
		return apperr.TooManyRequests("too many failed login attempts, try again later")
	}
	return nil
}

// RecordFailure starts the window on the first failure and counts the
// attempt in one MULTI, so a counter never exists without a TTL.
func (l *RedisLimiter) RecordFailure(ctx context.Context, email string) {
	_, err := l.cb.Execute(func() (interface{}, error) {
		key := loginKey(email)
		return l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetNX(ctx, key, 0, l.window)
			pipe.Incr(ctx, key)
			return nil
		})
	})
	if err != nil {
		l.log.Warn().Err(err).Msg("login limiter: record failure")
	}
}

func (l *RedisLimiter) Reset(ctx context.Context, email string) {
	_, err := l.cb.Execute(func() (interface{}, error) {
		return nil, l.rdb.Del(ctx, loginKey(email)).Err()
	})
	if err != nil {
		l.log.Warn().Err(err).Msg("login limiter: reset")
	}
}
