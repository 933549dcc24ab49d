package events

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
)

// ResilientConfig tunes retry and circuit breaking around a remote store.
type ResilientConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// TripAfter consecutive failures opens the breaker.
	TripAfter   int
	OpenTimeout time.Duration
}

func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		TripAfter:    5,
		OpenTimeout:  30 * time.Second,
	}
}

// Resilient retries a flaky store with backoff and stops calling it while
// it keeps failing, so the fallback tier takes over quickly.
type Resilient struct {
	name    string
	next    Store
	breaker circuitbreaker.CircuitBreaker[struct{}]
	retrier retry.Retry[struct{}]
}

func NewResilient(name string, next Store, cfg ResilientConfig) *Resilient {
	log := logger.Default().WithPrefix("events").WithField("store", name)
	return &Resilient{
		name: name,
		next: next,
		breaker: circuitbreaker.New[struct{}](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return int(counts.ConsecutiveFailures) >= cfg.TripAfter
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				log.Warn("circuit breaker %s -> %s", from.String(), to.String())
			},
		}),
		retrier: retry.New[struct{}](retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.InitialDelay,
			MaxDelay:      cfg.MaxDelay,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable: func(err error) bool {
				return err != nil && err != context.Canceled && err != context.DeadlineExceeded
			},
		}),
	}
}

func (r *Resilient) Save(ctx context.Context, ev models.Event) error {
	_, err := r.breaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return r.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, r.next.Save(ctx, ev)
		})
	})
	return err
}
