// Package admin exposes read-only operator endpoints: the loaded zipcode
// registry and a citizen's verification history.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"residency/internal/admin/types"
	id "residency/pkg/domain"
	dErrors "residency/pkg/domain-errors"
	"residency/pkg/platform/audit"
	"residency/pkg/platform/httputil"
	"residency/pkg/platform/sentinel"
	"residency/pkg/requestcontext"
)

type CitizenReader interface {
	FindByID(ctx context.Context, citizenID id.CitizenID) (*types.AdminCitizen, error)
}

type AuditReader interface {
	ListByCitizen(ctx context.Context, citizenID id.CitizenID) ([]audit.Event, error)
}

type ZipcodeLister interface {
	Codes() []string
}

type Handler struct {
	citizens CitizenReader
	audit    AuditReader
	zipcodes ZipcodeLister
	logger   *slog.Logger
}

func New(citizens CitizenReader, auditReader AuditReader, zipcodes ZipcodeLister, logger *slog.Logger) *Handler {
	return &Handler{
		citizens: citizens,
		audit:    auditReader,
		zipcodes: zipcodes,
		logger:   logger,
	}
}

// Register mounts admin endpoints. The caller guards them with the admin
// token middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/zipcodes", h.HandleListZipcodes)
	r.Get("/admin/citizens/{id}", h.HandleGetCitizen)
}

func (h *Handler) HandleListZipcodes(w http.ResponseWriter, r *http.Request) {
	codes := h.zipcodes.Codes()
	httputil.WriteJSON(w, http.StatusOK, &ZipcodesResponse{Codes: codes, Total: len(codes)})
}

func (h *Handler) HandleGetCitizen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	citizenID, err := id.ParseCitizenID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	citizen, err := h.citizens.FindByID(ctx, citizenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "citizen not found"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to load citizen",
			"request_id", requestID,
			"citizen_id", citizenID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load citizen"))
		return
	}

	events, err := h.audit.ListByCitizen(ctx, citizenID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load audit events",
			"request_id", requestID,
			"citizen_id", citizenID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit events"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCitizenResponse(citizen, events))
}
