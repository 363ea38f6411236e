package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/audit"
	"bloodconnect/pkg/platform/httputil"
	"bloodconnect/pkg/platform/middleware/request"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Lister interface {
	List(ctx context.Context, limit int) ([]audit.Event, error)
}

type Handler struct {
	lister Lister
	logger *slog.Logger
	admin  func(http.Handler) http.Handler
}

// New builds the audit read handler. admin must authenticate and require the
// admin role.
func New(lister Lister, logger *slog.Logger, admin func(http.Handler) http.Handler) *Handler {
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{lister: lister, logger: logger, admin: admin}
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.admin).Get("/api/audit/recent", h.handleRecent)
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be between 1 and 500"))
			return
		}
		limit = n
	}
	events, err := h.lister.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events", "request_id", request.GetRequestID(ctx), "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}
