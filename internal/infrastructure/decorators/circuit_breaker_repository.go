// Package decorators wraps item repositories with cross-cutting behaviour:
// circuit breaking, tracing and metrics. Every decorator satisfies
// repository.ItemRepository, so they stack in any order.
package decorators

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/repository"
	appErrors "github.com/novacaap/java-sample-docker/pkg/errors"
)

// CircuitBreakerConfig holds configuration for circuit breaker
type CircuitBreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Trip once at least MinRequests were seen and this share of them failed.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerStateRecorder receives the numeric breaker state on every transition.
type BreakerStateRecorder interface {
	SetBreakerState(name string, state float64)
}

// CircuitBreakerItemRepository rejects store calls while the breaker is open.
type CircuitBreakerItemRepository struct {
	inner repository.ItemRepository
	cb    *gobreaker.CircuitBreaker
}

var _ repository.ItemRepository = (*CircuitBreakerItemRepository)(nil)

// NewCircuitBreakerItemRepository wraps inner with a gobreaker circuit breaker.
// recorder may be nil.
func NewCircuitBreakerItemRepository(
	inner repository.ItemRepository,
	config CircuitBreakerConfig,
	recorder BreakerStateRecorder,
	logger *zap.Logger,
) *CircuitBreakerItemRepository {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if recorder != nil {
				recorder.SetBreakerState(name, float64(to))
			}
		},
		// A caller giving up is not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	if recorder != nil {
		recorder.SetBreakerState(config.Name, float64(gobreaker.StateClosed))
	}

	return &CircuitBreakerItemRepository{inner: inner, cb: cb}
}

// State returns the current breaker state.
func (r *CircuitBreakerItemRepository) State() gobreaker.State {
	return r.cb.State()
}

func (r *CircuitBreakerItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	out, err := r.execute(func() (any, error) {
		return r.inner.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]domain.Item), nil
}

func (r *CircuitBreakerItemRepository) Get(ctx context.Context, id domain.ItemID) (domain.Item, bool, error) {
	type result struct {
		item  domain.Item
		found bool
	}
	out, err := r.execute(func() (any, error) {
		item, found, err := r.inner.Get(ctx, id)
		return result{item, found}, err
	})
	if err != nil {
		return domain.Item{}, false, err
	}
	res := out.(result)
	return res.item, res.found, nil
}

func (r *CircuitBreakerItemRepository) Create(ctx context.Context, name, description string) (domain.Item, error) {
	out, err := r.execute(func() (any, error) {
		return r.inner.Create(ctx, name, description)
	})
	if err != nil {
		return domain.Item{}, err
	}
	return out.(domain.Item), nil
}

func (r *CircuitBreakerItemRepository) Delete(ctx context.Context, id domain.ItemID) (bool, error) {
	out, err := r.execute(func() (any, error) {
		return r.inner.Delete(ctx, id)
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

func (r *CircuitBreakerItemRepository) execute(fn func() (any, error)) (any, error) {
	out, err := r.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return nil, appErrors.NewUnavailable("item store unavailable: circuit open", err)
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, appErrors.NewUnavailable("item store unavailable: too many requests", err)
	}
	return out, err
}
