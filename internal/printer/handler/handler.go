package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bloodconnect/internal/printer/service"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/httputil"
	"bloodconnect/pkg/platform/middleware/request"
)

type Service interface {
	Healthy(ctx context.Context) bool
	List(ctx context.Context) []service.PrinterInfo
	PrintDonorSlips(ctx context.Context, d service.SlipData) error
	PrintTestPage(ctx context.Context) error
}

// PrintDonorSlipsRequest is posted by the registration kiosk right after a
// donor is issued a coupon.
type PrintDonorSlipsRequest struct {
	FullName   string `json:"fullName"`
	NationalID string `json:"nationalId"`
	CouponCode string `json:"couponCode"`
}

// PrintResponse keeps the success flag the kiosk checks on every print call.
type PrintResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	CouponCode string `json:"couponCode,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

type ListResponse struct {
	Success  bool                  `json:"success"`
	Printers []service.PrinterInfo `json:"printers"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the printer routes. They are public: the kiosk prints before
// any staff member signs in.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/printer", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/list", h.handleList)
		r.Post("/print-donor-slips", h.handlePrintDonorSlips)
		r.Post("/test", h.handleTest)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "unavailable"
	if h.service.Healthy(r.Context()) {
		status = "ok"
	}
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Service:   "Blood Connect Printer Service",
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Printers: h.service.List(r.Context())})
}

func (h *Handler) handlePrintDonorSlips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	var req PrintDonorSlipsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid print request", "request_id", requestID, "error", err)
		httputil.WriteJSON(w, http.StatusBadRequest, PrintResponse{Error: "invalid JSON body"})
		return
	}
	err := h.service.PrintDonorSlips(ctx, service.SlipData{
		FullName:   req.FullName,
		NationalID: req.NationalID,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		h.writeFailure(w, ctx, "donor slip print failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PrintResponse{
		Success:    true,
		Message:    "Slips printed successfully",
		CouponCode: req.CouponCode,
	})
}

func (h *Handler) handleTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.PrintTestPage(ctx); err != nil {
		h.writeFailure(w, ctx, "test print failed", request.GetRequestID(ctx), err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PrintResponse{Success: true, Message: "Test page printed successfully"})
}

// writeFailure maps validation errors to 400 and everything else to 500, the
// two outcomes the kiosk distinguishes.
func (h *Handler) writeFailure(w http.ResponseWriter, ctx context.Context, msg, requestID string, err error) {
	if dErrors.HasCode(err, dErrors.CodeValidation) {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
		httputil.WriteJSON(w, http.StatusBadRequest, PrintResponse{Error: err.Error()})
		return
	}
	h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	httputil.WriteJSON(w, http.StatusInternalServerError, PrintResponse{Error: err.Error()})
}
