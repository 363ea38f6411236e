package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"bloodconnect/internal/branch/models"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/httputil"
	"bloodconnect/pkg/platform/middleware/request"
)

type Service interface {
	ListActive(ctx context.Context) ([]*models.Branch, error)
	Get(ctx context.Context, branchID id.BranchID) (*models.Branch, error)
	Create(ctx context.Context, name, address string, active bool) (*models.Branch, error)
	Update(ctx context.Context, branchID id.BranchID, name, address string, active bool) (*models.Branch, error)
}

type BranchResponse struct {
	BranchID string `json:"branchId"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	IsActive bool   `json:"isActive"`
}

type BranchRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	IsActive *bool  `json:"isActive"`
}

func (r *BranchRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Address == "" {
		return dErrors.New(dErrors.CodeValidation, "address is required")
	}
	return nil
}

// active defaults to true when the field is omitted.
func (r *BranchRequest) active() bool {
	return r.IsActive == nil || *r.IsActive
}

type Handler struct {
	service Service
	logger  *slog.Logger
	staff   func(http.Handler) http.Handler
	admin   func(http.Handler) http.Handler
}

// New builds the branch handler. staff guards reads of a single branch; admin
// guards writes (and must include authentication).
func New(svc Service, logger *slog.Logger, staff, admin func(http.Handler) http.Handler) *Handler {
	pass := func(next http.Handler) http.Handler { return next }
	if staff == nil {
		staff = pass
	}
	if admin == nil {
		admin = pass
	}
	return &Handler{service: svc, logger: logger, staff: staff, admin: admin}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/api/branches", func(r chi.Router) {
		r.Get("/", h.handleListActive)
		r.With(h.staff).Get("/{id}", h.handleGet)
		r.With(h.admin).Post("/", h.handleCreate)
		r.With(h.admin).Put("/{id}", h.handleUpdate)
	})
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list branches",
			"request_id", request.GetRequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	out := make([]BranchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toResponse(b))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b, err := h.service.Get(r.Context(), branchID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BranchRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	b, err := h.service.Create(ctx, req.Name, req.Address, req.active())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	branchID, err := id.ParseBranchID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[BranchRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	b, err := h.service.Update(ctx, branchID, req.Name, req.Address, req.active())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(b))
}

func toResponse(b *models.Branch) BranchResponse {
	return BranchResponse{
		BranchID: b.ID.String(),
		Name:     b.Name,
		Address:  b.Address,
		IsActive: b.IsActive,
	}
}
