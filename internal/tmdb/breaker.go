package tmdb

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/marquee/internal/metrics"
)

// BreakerSettings configures the provider circuit breaker.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32        // requests allowed while half-open
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open duration before probing again
	MinRequests  uint32        // requests needed before the failure ratio is considered
	FailureRatio float64
}

// Breaker opens after sustained provider failures so callers fail fast instead of
// waiting on timeouts. A 404 counts as a success.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker[struct{}]
	name   string
	logger *zap.Logger
}

// NewBreaker creates a circuit breaker from settings.
func NewBreaker(s BreakerSettings, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s.Name == "" {
		s.Name = "tmdb-api"
	}
	b := &Breaker{name: s.Name, logger: logger}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	b.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= s.FailureRatio
			if trip {
				logger.Warn("opening provider circuit",
					zap.Uint32("failures", counts.TotalFailures),
					zap.Float64("failure_ratio", ratio))
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("provider circuit state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	})
	return b
}

// Execute runs fn through the breaker. When the circuit is open fn is not called and
// the returned error satisfies IsRejected.
func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// State returns the breaker state as a string (closed, half-open, open).
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// IsRejected reports whether err came from an open or saturated breaker.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
