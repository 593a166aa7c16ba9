package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// blobResult carries Get's two return values through the generic fortify wrappers.
type blobResult struct {
	value string
	found bool
}

// ResilientConfig configures the retry and circuit breaker around a backend.
type ResilientConfig struct {
	// MaxAttempts per operation (default: 3)
	MaxAttempts int

	// InitialDelay before the first retry (default: 50ms)
	InitialDelay time.Duration

	// MaxDelay caps the exponential backoff (default: 1s)
	MaxDelay time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker (default: 5)
	FailureThreshold int

	// OpenTimeout is how long the breaker stays open (default: 30s)
	OpenTimeout time.Duration
}

// DefaultResilientConfig returns defaults suited to local and network stores.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxAttempts:      3,
		InitialDelay:     50 * time.Millisecond,
		MaxDelay:         time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// ResilientStore wraps a BlobStore with retry and a circuit breaker.
type ResilientStore struct {
	inner   BlobStore
	breaker circuitbreaker.CircuitBreaker[blobResult]
	retrier retry.Retry[blobResult]
}

// NewResilientStore wraps inner. Zero config fields fall back to defaults.
func NewResilientStore(inner BlobStore, cfg ResilientConfig) *ResilientStore {
	def := DefaultResilientConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = def.InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}

	return &ResilientStore{
		inner: inner,
		breaker: circuitbreaker.New[blobResult](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return int(counts.ConsecutiveFailures) >= cfg.FailureThreshold
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				slog.Warn("storage circuit breaker state change",
					"from", from.String(),
					"to", to.String())
			},
		}),
		retrier: retry.New[blobResult](retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.InitialDelay,
			MaxDelay:      cfg.MaxDelay,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable:   isRetryable,
		}),
	}
}

func (s *ResilientStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}
	res, err := s.do(ctx, func(ctx context.Context) (blobResult, error) {
		v, found, err := s.inner.Get(ctx, key)
		return blobResult{value: v, found: found}, err
	})
	if err != nil {
		return "", false, err
	}
	return res.value, res.found, nil
}

func (s *ResilientStore) Set(ctx context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := s.do(ctx, func(ctx context.Context) (blobResult, error) {
		return blobResult{}, s.inner.Set(ctx, key, value)
	})
	return err
}

func (s *ResilientStore) Remove(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := s.do(ctx, func(ctx context.Context) (blobResult, error) {
		return blobResult{}, s.inner.Remove(ctx, key)
	})
	return err
}

func (s *ResilientStore) do(ctx context.Context, op func(context.Context) (blobResult, error)) (blobResult, error) {
	return s.breaker.Execute(ctx, func(ctx context.Context) (blobResult, error) {
		return s.retrier.Do(ctx, op)
	})
}

// isRetryable rejects errors a second attempt cannot fix.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidKey) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

var _ BlobStore = (*ResilientStore)(nil)
