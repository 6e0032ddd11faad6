// Package service implements the residency verification engine.
//
// Evaluate applies a fail-fast rule chain to a citizen's attempt:
//
//  1. Form validation (ValidationError, nothing recorded)
//  2. Minimum age (Rejected UnderAge)
//  3. Postal code eligibility (Rejected IneligiblePostalCode), checked before
//     any document lookup so an ineligible citizen learns nothing about
//     other citizens' documents
//  4. Citizen state: a pending manual review or a verified citizen with a
//     different document stop here
//  5. Duplicate document lookup, then an atomic Bind; a document held by
//     another citizen escalates to manual review
//
// Business outcomes are values. The error return is reserved for
// infrastructure failures. At most one citizen state transition happens per
// call. The write is conditional on the level the rules saw; when a
// concurrent attempt commits first, the citizen is read again and the rules
// return its current outcome instead.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	citizenmodels "residency/internal/citizen/models"
	identitymodels "residency/internal/identity/models"
	"residency/internal/verification/metrics"
	"residency/internal/verification/models"
	"residency/internal/verification/ports"
	id "residency/pkg/domain"
	dErrors "residency/pkg/domain-errors"
	"residency/pkg/platform/audit"
	"residency/pkg/platform/sentinel"
	txcontext "residency/pkg/platform/tx"
	"residency/pkg/requestcontext"
)

const tracerName = "residency/internal/verification"

// Service evaluates verification attempts.
type Service struct {
	citizens   ports.CitizenStore
	index      ports.DocumentIndex
	registry   ports.ZipcodeRegistry
	dispatcher ports.Dispatcher
	auditor    ports.AuditPublisher
	tx         txcontext.Runner
	cfg        Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func WithDispatcher(dispatcher ports.Dispatcher) Option {
	return func(s *Service) {
		s.dispatcher = dispatcher
	}
}

// WithTxRunner makes the document binding, the citizen update and its audit
// event commit together.
func WithTxRunner(runner txcontext.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New constructs the verification service.
func New(citizens ports.CitizenStore, index ports.DocumentIndex, registry ports.ZipcodeRegistry, cfg Config, opts ...Option) (*Service, error) {
	if citizens == nil {
		return nil, errors.New("citizen store is required")
	}
	if index == nil {
		return nil, errors.New("document index is required")
	}
	if registry == nil {
		return nil, errors.New("zipcode registry is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid verification config: %w", err)
	}

	s := &Service{
		citizens: citizens,
		index:    index,
		registry: registry,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tx == nil {
		s.tx = txcontext.NoopRunner{}
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// decision is the rule chain's verdict before persistence.
type decision struct {
	outcome models.Outcome
	effects []models.Effect
	// next is the citizen after the transition, nil when state is unchanged.
	next *citizenmodels.Citizen
}

// Evaluate runs the verification rule chain for one attempt.
func (s *Service) Evaluate(ctx context.Context, attempt models.Attempt) (result *models.Result, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "verification.Evaluate",
		trace.WithAttributes(attribute.String("citizen_id", attempt.CitizenID.String())),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "verification failed")
		} else {
			span.SetAttributes(
				attribute.String("verification.status", string(result.Outcome.Status())),
				attribute.String("verification.reason", models.ReasonOf(result.Outcome)),
			)
			s.metrics.IncrementOutcome(string(result.Outcome.Status()), models.ReasonOf(result.Outcome))
		}
		span.End()
		s.metrics.ObserveEvaluateLatency(time.Since(start))
	}()

	if attempt.CitizenID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "citizen is required")
	}
	now := requestcontext.Now(ctx)

	parsed, invalid := validateAttempt(attempt, s.cfg, now)
	if invalid != nil {
		return &models.Result{Outcome: *invalid, EvaluatedAt: now}, nil
	}

	citizen, err := s.citizens.FindByID(ctx, attempt.CitizenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "citizen not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load citizen")
	}

	priorClaim := s.recordClaim(ctx, citizen.ID, parsed.document)

	result, err = s.settle(ctx, citizen, parsed, priorClaim, now)
	if errors.Is(err, sentinel.ErrInvalidState) {
		s.metrics.IncrementStateConflict()
		s.logger.InfoContext(ctx, "citizen changed during verification, re-evaluating",
			"request_id", requestcontext.RequestID(ctx),
			"citizen_id", citizen.ID,
		)
		citizen, err = s.citizens.FindByID(ctx, attempt.CitizenID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reload citizen")
		}
		result, err = s.settle(ctx, citizen, parsed, priorClaim, now)
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "citizen changed during verification")
		}
	}
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, citizen.ID, result)
	return result, nil
}

// settle decides and commits in one unit of work: document binding, the
// citizen update and its audit event. A citizen whose level moved since it
// was read surfaces as sentinel.ErrInvalidState.
func (s *Service) settle(ctx context.Context, citizen *citizenmodels.Citizen, p parsedAttempt, priorClaim bool, now time.Time) (*models.Result, error) {
	var result *models.Result
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.decide(ctx, citizen, p, now)
		if err != nil {
			return err
		}
		result = &models.Result{
			Outcome:     d.outcome,
			Effects:     d.effects,
			PriorClaim:  priorClaim,
			EvaluatedAt: now,
		}
		if d.next != nil {
			if err := s.citizens.UpdateVerification(ctx, d.next); err != nil {
				if errors.Is(err, sentinel.ErrInvalidState) {
					return err
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update citizen")
			}
		}
		return s.emitAudit(ctx, citizen.ID, p.document, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// decide runs the business rules after validation.
func (s *Service) decide(ctx context.Context, citizen *citizenmodels.Citizen, p parsedAttempt, now time.Time) (decision, error) {
	if AgeAt(p.dateOfBirth, now) < s.cfg.MinimumAge {
		return decision{outcome: models.Rejected{Reason: models.ReasonUnderAge}}, nil
	}
	if !s.registry.IsEligible(p.postalCode) {
		return decision{outcome: models.Rejected{Reason: models.ReasonIneligiblePostalCode}}, nil
	}
	if citizen.IsPendingReview() {
		return decision{outcome: models.ManualReviewRequested{Reason: models.ReasonReviewInProgress}}, nil
	}
	if citizen.IsVerified() && !citizen.HoldsDocument(p.document) {
		return decision{outcome: models.Rejected{Reason: models.ReasonDocumentMismatch}}, nil
	}

	holder, found, err := s.index.FindBoundCitizen(ctx, p.document)
	if err != nil {
		return decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up document")
	}
	if found && holder != citizen.ID {
		s.metrics.IncrementBindConflict("lookup")
		return s.escalate(ctx, citizen, p.document, now), nil
	}

	if err := s.index.Bind(ctx, citizen.ID, p.document); err != nil {
		if _, ok := identitymodels.IsAlreadyBound(err); ok {
			s.metrics.IncrementBindConflict("bind")
			return s.escalate(ctx, citizen, p.document, now), nil
		}
		if errors.Is(err, identitymodels.ErrCitizenHasDocument) {
			return decision{outcome: models.Rejected{Reason: models.ReasonDocumentMismatch}}, nil
		}
		return decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to bind document")
	}

	if citizen.IsVerified() {
		return decision{outcome: models.Verified{}}, nil
	}
	next := *citizen
	residence := citizenmodels.Residence{
		Document:    p.document,
		DateOfBirth: p.dateOfBirth,
		PostalCode:  p.postalCode,
	}
	if err := next.Verify(residence, now); err != nil {
		return decision{}, err
	}
	return decision{
		outcome: models.Verified{},
		effects: []models.Effect{models.EffectMarkVerified},
		next:    &next,
	}, nil
}

// escalate routes a document held by someone else to manual review. The
// holder is never touched.
func (s *Service) escalate(ctx context.Context, citizen *citizenmodels.Citizen, doc id.DocumentIdentity, now time.Time) decision {
	s.logger.WarnContext(ctx, "document already verified by another citizen",
		"request_id", requestcontext.RequestID(ctx),
		"citizen_id", citizen.ID,
		"document_hash", doc.Hash(),
	)
	d := decision{outcome: models.ManualReviewRequested{Reason: models.ReasonDocumentAlreadyVerifiedByAnother}}
	next := *citizen
	if err := next.RequestManualReview(now); err != nil {
		return d
	}
	d.next = &next
	d.effects = []models.Effect{models.EffectSendSecurityCodeByMail}
	return d
}

// recordClaim notes the submission in the claim ledger and reports whether
// anyone submitted the document before. The ledger is advisory: failures are
// logged and never change the outcome.
func (s *Service) recordClaim(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) bool {
	prior, err := s.index.HasPriorClaim(ctx, doc)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to check prior document claims",
			"request_id", requestcontext.RequestID(ctx),
			"citizen_id", citizenID,
			"error", err,
		)
	}
	if err := s.index.RecordClaim(ctx, citizenID, doc); err != nil {
		s.logger.WarnContext(ctx, "failed to record document claim",
			"request_id", requestcontext.RequestID(ctx),
			"citizen_id", citizenID,
			"error", err,
		)
	}
	return prior
}

func (s *Service) emitAudit(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity, result *models.Result) error {
	if s.auditor == nil {
		return nil
	}
	action := audit.EventVerificationRejected
	switch result.Outcome.(type) {
	case models.Verified:
		action = audit.EventVerificationVerified
	case models.ManualReviewRequested:
		action = audit.EventVerificationManualReview
	}
	err := s.auditor.Emit(ctx, audit.ComplianceEvent{
		Timestamp:     result.EvaluatedAt,
		CitizenID:     citizenID,
		Action:        string(action),
		Decision:      string(result.Outcome.Status()),
		Reason:        models.ReasonOf(result.Outcome),
		SubjectIDHash: doc.Hash(),
		PriorClaim:    result.PriorClaim,
		RequestID:     requestcontext.RequestID(ctx),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record verification audit")
	}
	return nil
}

// dispatch hands the side effects to the dispatcher. State is already
// durable at this point, so a failed dispatch is logged and counted rather
// than turned into an error.
func (s *Service) dispatch(ctx context.Context, citizenID id.CitizenID, result *models.Result) {
	if s.dispatcher == nil || len(result.Effects) == 0 {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, citizenID, result); err != nil {
		s.metrics.IncrementDispatchFailure(string(result.Outcome.Status()))
		s.logger.ErrorContext(ctx, "failed to dispatch verification effects",
			"request_id", requestcontext.RequestID(ctx),
			"citizen_id", citizenID,
			"effects", result.Effects,
			"error", err,
		)
	}
}

// Account returns the citizen's current verification state.
func (s *Service) Account(ctx context.Context, citizenID id.CitizenID) (*citizenmodels.Citizen, error) {
	citizen, err := s.citizens.FindByID(ctx, citizenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "citizen not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load citizen")
	}
	return citizen, nil
}
