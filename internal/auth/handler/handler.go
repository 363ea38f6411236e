package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bloodconnect/internal/auth/lockout"
	"bloodconnect/internal/auth/models"
	"bloodconnect/internal/auth/service"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/httputil"
	"bloodconnect/pkg/platform/middleware/request"
)

type Service interface {
	Register(ctx context.Context, cmd service.RegisterCommand) (*models.AuthResult, error)
	Login(ctx context.Context, username, password string) (*models.AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error)
}

type Handler struct {
	service      Service
	logger       *slog.Logger
	auth         func(http.Handler) http.Handler
	optionalAuth func(http.Handler) http.Handler
}

// New builds the staff auth handler. auth guards logout and me; optionalAuth
// lets register see an admin caller while still admitting the bootstrap user.
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
	r.Route("/api/auth", func(r chi.Router) {
		r.With(h.optionalAuth).Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Post("/refresh", h.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Post("/logout", h.handleLogout)
			r.Get("/me", h.handleMe)
		})
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.Register(ctx, req.ToCommand())
	if err != nil {
		h.logFailure(ctx, "staff registration failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newAuthResponse(res))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		var locked *lockout.LockedError
		if errors.As(err, &locked) {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(locked.RetryAfter.Seconds()))))
		}
		h.logFailure(ctx, "staff login failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newAuthResponse(res))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RefreshRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newAuthResponse(res))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Logout(ctx); err != nil {
		h.logFailure(ctx, "staff logout failed", request.GetRequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable, dErrors.CodeTimeout:
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	default:
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
	}
}
