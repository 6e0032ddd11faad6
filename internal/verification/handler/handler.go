// Package handler exposes the verification engine over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	citizenmodels "residency/internal/citizen/models"
	"residency/internal/verification/models"
	id "residency/pkg/domain"
	dErrors "residency/pkg/domain-errors"
	"residency/pkg/platform/httputil"
	"residency/pkg/requestcontext"
)

// Service defines the verification operations the handler needs.
type Service interface {
	Evaluate(ctx context.Context, attempt models.Attempt) (*models.Result, error)
	Account(ctx context.Context, citizenID id.CitizenID) (*citizenmodels.Citizen, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts verification endpoints on the router. The router must
// authenticate the citizen first.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify", h.HandleVerify)
	r.Get("/account", h.HandleAccount)
}

// HandleVerify handles POST /verify requests. Every business outcome is a
// 200; only malformed input is a 400.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	citizenID := requestcontext.CitizenID(ctx)
	if citizenID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Evaluate(ctx, req.ToAttempt(citizenID))
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed",
			"request_id", requestID,
			"citizen_id", citizenID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if invalid, ok := result.Outcome.(models.ValidationError); ok {
		h.logger.InfoContext(ctx, "verification attempt invalid",
			"request_id", requestID,
			"citizen_id", citizenID,
			"field", invalid.Field,
		)
		httputil.WriteError(w, &fieldError{field: invalid.Field, message: models.Message(invalid)})
		return
	}

	h.logger.InfoContext(ctx, "verification evaluated",
		"request_id", requestID,
		"citizen_id", citizenID,
		"status", result.Outcome.Status(),
		"reason", models.ReasonOf(result.Outcome),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleAccount handles GET /account requests.
func (h *Handler) HandleAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	citizenID := requestcontext.CitizenID(ctx)
	if citizenID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	citizen, err := h.service.Account(ctx, citizenID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load account",
			"request_id", requestcontext.RequestID(ctx),
			"citizen_id", citizenID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCitizen(citizen))
}
