// Package ops records operational audit events on a best-effort basis.
// Unlike compliance events, a failed ops write never fails the caller.
package ops

import (
	"context"
	"log/slog"
	"time"

	audit "residency/pkg/platform/audit"
)

type Publisher struct {
	store   audit.Store
	breaker *CircuitBreaker
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(p *Publisher) {
		p.breaker = cb
	}
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.breaker == nil {
		p.breaker = NewCircuitBreaker(5, time.Minute)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Track writes the event unless the circuit is open. Failures are logged
// and counted.
func (p *Publisher) Track(ctx context.Context, event audit.OpsEvent) {
	if !p.breaker.Allow() {
		p.metrics.IncCircuitBreakerDropped()
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := p.store.Append(ctx, event.ToEvent()); err != nil {
		p.breaker.RecordFailure()
		p.metrics.IncPersistFailures()
		p.metrics.SetCircuitBreakerState(p.breaker.IsOpen())
		p.logger.WarnContext(ctx, "ops audit write failed",
			"action", event.Action,
			"error", err,
		)
		return
	}
	p.breaker.RecordSuccess()
	p.metrics.SetCircuitBreakerState(false)
	p.metrics.IncTracked()
}
