package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloodconnect/internal/screening/models"
	"bloodconnect/internal/screening/service"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/httputil"
	"bloodconnect/pkg/platform/middleware/request"
	"bloodconnect/pkg/platform/pagination"
)

type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*models.Screening, error)
	Get(ctx context.Context, screeningID id.ScreeningID) (*models.Screening, error)
	List(ctx context.Context, page pagination.Params) (*models.ListResult, error)
	ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.Screening, error)
}

type Handler struct {
	service      Service
	logger       *slog.Logger
	auth         func(http.Handler) http.Handler
	optionalAuth func(http.Handler) http.Handler
}

// New builds the screening handler. Recording a screening is open to the
// kiosk; auth guards the read routes. optionalAuth lets a signed-in nurse be
// recorded as the screening's staff member.
func New(svc Service, logger *slog.Logger, auth, optionalAuth func(http.Handler) http.Handler) *Handler {
	passthrough := func(next http.Handler) http.Handler { return next }
	if auth == nil {
		auth = passthrough
	}
	if optionalAuth == nil {
		optionalAuth = passthrough
	}
	return &Handler{service: svc, logger: logger, auth: auth, optionalAuth: optionalAuth}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/api/screenings", func(r chi.Router) {
		r.With(h.optionalAuth).Post("/", h.handleCreate)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/", h.handleList)
			r.Get("/{id}", h.handleGet)
			r.Get("/donor/{donorId}", h.handleListByDonor)
		})
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateScreeningRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sc, err := h.service.Create(ctx, req.ToCommand())
	if err != nil {
		h.logFailure(ctx, "screening create failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Location", "/api/screenings/"+sc.ID.String())
	httputil.WriteJSON(w, http.StatusCreated, models.NewResponse(sc))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.List(r.Context(), page)
	if err != nil {
		h.logFailure(r.Context(), "failed to list screenings", request.GetRequestID(r.Context()), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pagination.NewResponse(models.NewResponses(result.Screenings), page, result.Total))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	screeningID, err := id.ParseScreeningID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sc, err := h.service.Get(r.Context(), screeningID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewResponse(sc))
}

func (h *Handler) handleListByDonor(w http.ResponseWriter, r *http.Request) {
	donorID, err := id.ParseDonorID(chi.URLParam(r, "donorId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.ListByDonor(r.Context(), donorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewResponses(list))
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable, dErrors.CodeTimeout:
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	default:
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
	}
}
