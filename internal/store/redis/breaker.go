package redis

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/MrSnakeDoc/wayfare/internal/logger"
	"github.com/MrSnakeDoc/wayfare/internal/metrics"
)

// ErrUnavailable is returned while the breaker rejects calls.
var ErrUnavailable = errors.New("redis unavailable")

// BreakerOptions tunes when the store stops calling Redis.
type BreakerOptions struct {
	Name             string
	FailureThreshold uint32        // consecutive failures before opening
	Timeout          time.Duration // open duration before a trial call
	MaxRequests      uint32        // trial calls allowed while half-open
}

func DefaultBreakerOptions() BreakerOptions {
	return BreakerOptions{
		Name:             "redis",
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

func newBreaker(opts BreakerOptions, log logger.Logger) *gobreaker.CircuitBreaker[any] {
	metrics.RedisBreakerState.WithLabelValues(opts.Name).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: opts.MaxRequests,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		// a cache miss is an answer, not a failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			open := 0.0
			if to == gobreaker.StateOpen {
				open = 1
			}
			metrics.RedisBreakerState.WithLabelValues(name).Set(open)
			log.Warn("redis circuit breaker state changed",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
}

// do runs fn through the breaker. Rejections are reported as ErrUnavailable.
func (s *Store) do(fn func() error) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// BreakerState reports the breaker state for health endpoints.
func (s *Store) BreakerState() string {
	return s.breaker.State().String()
}
