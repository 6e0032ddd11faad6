package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"residency/internal/verification/models"
	"residency/internal/verification/ports"
	id "residency/pkg/domain"
	"residency/pkg/platform/circuit"
)

// Failover sends effects to the primary dispatcher and, once the breaker
// opens, also to the fallback so effects are never silently lost. The
// primary is still tried on every call and closes the breaker when it
// recovers.
type Failover struct {
	primary  ports.Dispatcher
	fallback ports.Dispatcher
	breaker  *circuit.Breaker
	logger   *slog.Logger
	observe  StateObserver
}

// StateObserver is told when the breaker opens or closes.
type StateObserver func(ctx context.Context, breaker string, opened bool)

type FailoverOption func(*Failover)

func WithStateObserver(observe StateObserver) FailoverOption {
	return func(f *Failover) {
		f.observe = observe
	}
}

func NewFailover(primary, fallback ports.Dispatcher, breaker *circuit.Breaker, logger *slog.Logger, opts ...FailoverOption) *Failover {
	f := &Failover{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
		observe:  func(context.Context, string, bool) {},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Failover) Dispatch(ctx context.Context, citizenID id.CitizenID, result *models.Result) error {
	err := f.primary.Dispatch(ctx, citizenID, result)
	if err == nil {
		if _, change := f.breaker.RecordSuccess(); change.Closed {
			f.logger.InfoContext(ctx, "dispatcher circuit closed", "breaker", f.breaker.Name())
			f.observe(ctx, f.breaker.Name(), false)
		}
		return nil
	}

	useFallback, change := f.breaker.RecordFailure()
	if change.Opened {
		f.logger.ErrorContext(ctx, "dispatcher circuit opened", "breaker", f.breaker.Name(), "error", err)
		f.observe(ctx, f.breaker.Name(), true)
	}
	if !useFallback {
		return err
	}
	if fbErr := f.fallback.Dispatch(ctx, citizenID, result); fbErr != nil {
		return fmt.Errorf("fallback dispatch failed: %w (primary: %v)", fbErr, err)
	}
	return nil
}
