package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloodconnect/internal/deferral/models"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/httputil"
)

type Service interface {
	List(ctx context.Context) ([]*models.DeferralReason, error)
	Get(ctx context.Context, reasonID id.DeferralReasonID) (*models.DeferralReason, error)
}

type DeferralReasonResponse struct {
	DeferralReasonID    string `json:"deferralReasonId"`
	Code                string `json:"code"`
	Label               string `json:"label"`
	Category            string `json:"category"`
	DefaultDurationDays int    `json:"defaultDurationDays"`
}

// Handler serves the public deferral reason catalogue.
type Handler struct {
	service Service
}

func New(svc Service) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/deferral-reasons", h.handleList)
	r.Get("/api/deferral-reasons/{id}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]DeferralReasonResponse, 0, len(list))
	for _, reason := range list {
		out = append(out, toResponse(reason))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reasonID, err := id.ParseDeferralReasonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reason, err := h.service.Get(r.Context(), reasonID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(reason))
}

func toResponse(r *models.DeferralReason) DeferralReasonResponse {
	return DeferralReasonResponse{
		DeferralReasonID:    r.ID.String(),
		Code:                r.Code,
		Label:               r.Label,
		Category:            r.Category,
		DefaultDurationDays: r.DefaultDurationDays,
	}
}
