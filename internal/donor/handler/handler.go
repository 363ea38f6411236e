package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloodconnect/internal/donor/models"
	"bloodconnect/internal/donor/service"
	screeningModels "bloodconnect/internal/screening/models"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/httputil"
	"bloodconnect/pkg/platform/middleware/request"
	"bloodconnect/pkg/platform/pagination"
)

// Service defines the donor operations used by the HTTP layer.
type Service interface {
	Register(ctx context.Context, cmd service.RegisterCommand) (*models.Donor, error)
	Get(ctx context.Context, donorID id.DonorID) (*models.Donor, error)
	GetByCoupon(ctx context.Context, code string) (*models.Donor, error)
	List(ctx context.Context, page pagination.Params) (*models.ListResult, error)
	Update(ctx context.Context, donorID id.DonorID, profile models.Profile) (*models.Donor, error)
	Screenings(ctx context.Context, donorID id.DonorID) ([]*screeningModels.Screening, error)
	NextCoupon(ctx context.Context) (string, error)
}

// Handler serves /api/donors.
type Handler struct {
	service Service
	logger  *slog.Logger
	auth    func(http.Handler) http.Handler
}

// New builds the donor handler. auth guards the staff-only routes; nil leaves
// them open.
func New(svc Service, logger *slog.Logger, auth func(http.Handler) http.Handler) *Handler {
	if auth == nil {
		auth = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{service: svc, logger: logger, auth: auth}
}

// Register mounts the routes. Registration, coupon lookup and the next-code
// preview are public kiosk endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/donors", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.Get("/next-coupon", h.handleNextCoupon)
		r.Get("/coupon/{code}", h.handleGetByCoupon)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/", h.handleList)
			r.Get("/{id}", h.handleGet)
			r.Put("/{id}", h.handleUpdate)
			r.Get("/{id}/screenings", h.handleScreenings)
		})
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterDonorRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	donor, err := h.service.Register(ctx, req.ToCommand())
	if err != nil {
		h.logFailure(ctx, "donor registration failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDonorResponse(donor))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.List(ctx, page)
	if err != nil {
		h.logFailure(ctx, "failed to list donors", request.GetRequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]DonorResponse, 0, len(res.Donors))
	for _, d := range res.Donors {
		out = append(out, toDonorResponse(d))
	}
	httputil.WriteJSON(w, http.StatusOK, pagination.NewResponse(out, page, res.Total))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	donorID, err := id.ParseDonorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	donor, err := h.service.Get(r.Context(), donorID)
	if err != nil {
		h.logFailure(r.Context(), "failed to get donor", request.GetRequestID(r.Context()), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDonorResponse(donor))
}

func (h *Handler) handleGetByCoupon(w http.ResponseWriter, r *http.Request) {
	donor, err := h.service.GetByCoupon(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDonorResponse(donor))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	donorID, err := id.ParseDonorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateDonorRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	donor, err := h.service.Update(ctx, donorID, req.toProfile())
	if err != nil {
		h.logFailure(ctx, "donor update failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDonorResponse(donor))
}

func (h *Handler) handleScreenings(w http.ResponseWriter, r *http.Request) {
	donorID, err := id.ParseDonorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.Screenings(r.Context(), donorID)
	if err != nil {
		h.logFailure(r.Context(), "failed to list donor screenings", request.GetRequestID(r.Context()), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, screeningModels.NewResponses(list))
}

func (h *Handler) handleNextCoupon(w http.ResponseWriter, r *http.Request) {
	code, err := h.service.NextCoupon(r.Context())
	if err != nil {
		h.logFailure(r.Context(), "failed to preview coupon code", request.GetRequestID(r.Context()), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, NextCouponResponse{CouponCode: code})
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable, dErrors.CodeTimeout:
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	default:
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
	}
}
