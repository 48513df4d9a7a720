// Package breaker guards a session repository with a circuit breaker so that
// requests fail fast while the backing store is down.
package breaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"

	"github.com/softmatrices/forique-sub000/internal/domain"
	"github.com/softmatrices/forique-sub000/internal/repository"
	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
)

// Config holds configuration for the circuit breaker.
type Config struct {
	// Name identifies this breaker in metrics and logs.
	Name string

	// MaxRequests is the number of requests allowed in the half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// FailureRatio trips the breaker once reached, after MinRequests.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultConfig returns sensible defaults for a session store breaker.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "storefront_session_store_breaker_state",
		Help: "Current state of the session store circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

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

// SessionRepository wraps another SessionRepository. Lookups of unknown
// sessions and context cancellations do not count as failures.
type SessionRepository struct {
	next    repository.SessionRepository
	breaker *gobreaker.CircuitBreaker[any]
	name    string
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository wraps next with a circuit breaker.
func NewSessionRepository(next repository.SessionRepository, cfg Config, logger *slog.Logger) *SessionRepository {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, apperrors.ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &SessionRepository{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		name:    cfg.Name,
	}
}

// State returns the current state of the circuit breaker.
func (r *SessionRepository) State() gobreaker.State {
	return r.breaker.State()
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	v, err := r.execute(func() (any, error) {
		return r.next.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Session), nil
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.next.Save(ctx, s)
	})
	return err
}

func (r *SessionRepository) SaveIfVersion(ctx context.Context, s *domain.Session, expectedVersion int) (bool, error) {
	v, err := r.execute(func() (any, error) {
		return r.next.SaveIfVersion(ctx, s, expectedVersion)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.next.Delete(ctx, id)
	})
	return err
}

func (r *SessionRepository) execute(fn func() (any, error)) (any, error) {
	v, err := r.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, apperrors.ServiceUnavailable("session store unavailable")
	}
	return v, err
}
