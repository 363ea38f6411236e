package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bloodconnect/internal/auth/metrics"
	"bloodconnect/internal/auth/models"
	jwttoken "bloodconnect/internal/jwt_token"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/audit"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID id.UserID, at time.Time) error
	Count(ctx context.Context) (int, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, username, email, role string) (*jwttoken.IssuedToken, error)
}

// TokenRevoker backs logout.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Lockout throttles repeated login failures per username and client IP.
type Lockout interface {
	Check(ctx context.Context, username, ip string) error
	RecordFailure(ctx context.Context, username, ip string) (bool, error)
	Clear(ctx context.Context, username, ip string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	users          UserStore
	tokens         TokenIssuer
	revoker        TokenRevoker
	lockout        Lockout
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	bcryptCost     int

	dummyOnce sync.Once
	dummyHash []byte
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLockout(l Lockout) Option {
	return func(s *Service) {
		s.lockout = l
	}
}

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(users UserStore, tokens TokenIssuer, revoker TokenRevoker, opts ...Option) *Service {
	s := &Service{
		users:      users,
		tokens:     tokens,
		revoker:    revoker,
		logger:     slog.Default(),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterCommand struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates a staff account. Once any account exists only an admin may
// register others; the very first account bootstraps as admin.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*models.AuthResult, error) {
	role, err := models.ParseRole(cmd.Role)
	if err != nil {
		return nil, toValidation(err)
	}
	if err := models.ValidatePassword(cmd.Password); err != nil {
		return nil, toValidation(err)
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count users")
	}
	if count == 0 {
		role = models.RoleAdmin
	} else if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user, err := models.NewUser(id.UserID(uuid.New()), cmd.Username, cmd.Email, string(hash), role, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}

	if exists, err := s.users.ExistsByUsername(ctx, user.Username); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check username")
	} else if exists {
		return nil, dErrors.New(dErrors.CodeConflict, "username already exists")
	}
	if exists, err := s.users.ExistsByEmail(ctx, user.Email); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
	} else if exists {
		return nil, dErrors.New(dErrors.CodeConflict, "email already exists")
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "username or email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}

	s.logger.InfoContext(ctx, "staff user registered",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
		"role", user.Role,
	)
	s.emitAudit(ctx, audit.EventStaffRegistered, user.ID.String(), string(user.Role))
	return s.issue(user)
}

// Login verifies credentials. Unknown users, inactive users and wrong
// passwords all fail the same way.
func (s *Service) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	ip := requestcontext.ClientIP(ctx)
	if s.lockout != nil {
		if err := s.lockout.Check(ctx, username, ip); err != nil {
			s.metrics.IncrementLoginFailure("locked")
			return nil, err
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if user == nil || !user.IsActive {
		// Burn a comparison so unknown usernames cost the same as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, s.loginFailed(ctx, username, ip, "unknown_user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, s.loginFailed(ctx, username, ip, "bad_password")
	}

	if s.lockout != nil {
		if err := s.lockout.Clear(ctx, username, ip); err != nil {
			s.logger.WarnContext(ctx, "failed to clear login failures", "error", err)
		}
	}
	now := requestcontext.Now(ctx)
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update last login")
	}
	user.LastLoginAt = &now

	s.metrics.IncrementLogins()
	s.logger.InfoContext(ctx, "staff login",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
	)
	s.emitAudit(ctx, audit.EventStaffLogin, user.ID.String(), "")
	return s.issue(user)
}

func (s *Service) loginFailed(ctx context.Context, username, ip, reason string) error {
	s.metrics.IncrementLoginFailure(reason)
	s.emitAudit(ctx, audit.EventStaffLoginFailed, username, reason)
	if s.lockout == nil {
		return errInvalidCredentials
	}
	locked, err := s.lockout.RecordFailure(ctx, username, ip)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record login failure", "error", err)
		return errInvalidCredentials
	}
	if locked {
		s.metrics.IncrementLockouts()
		s.emitAudit(ctx, audit.EventAuthLockoutTriggered, username, "daily failure limit")
	}
	return errInvalidCredentials
}

// Logout revokes the caller's access token until it would have expired.
func (s *Service) Logout(ctx context.Context) error {
	p, ok := requestcontext.CurrentPrincipal(ctx)
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	ttl := p.ExpiresAt.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.RevokeToken(ctx, p.TokenID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	s.emitAudit(ctx, audit.EventStaffLogout, p.UserID.String(), "")
	return nil
}

// Me returns the authenticated user.
func (s *Service) Me(ctx context.Context) (*models.User, error) {
	p, ok := requestcontext.CurrentPrincipal(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// Refresh is not supported: refresh tokens are issued but never stored.
func (s *Service) Refresh(_ context.Context, _ string) (*models.AuthResult, error) {
	return nil, dErrors.New(dErrors.CodeNotImplemented, "refresh token exchange is not implemented")
}

func (s *Service) issue(user *models.User) (*models.AuthResult, error) {
	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Email, string(user.Role))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	refresh, err := newRefreshToken()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue refresh token")
	}
	return &models.AuthResult{
		AccessToken:  token.Token,
		RefreshToken: refresh,
		TokenID:      token.JTI,
		ExpiresAt:    token.ExpiresAt,
		User:         user,
	}, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.bcryptCost)
	})
	return s.dummyHash
}

func requireAdmin(ctx context.Context) error {
	p, ok := requestcontext.CurrentPrincipal(ctx)
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if p.Role != string(models.RoleAdmin) {
		return dErrors.New(dErrors.CodeForbidden, "only admins can register staff")
	}
	return nil
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return err
}

func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, subject, reason string) {
	if s.auditPublisher == nil {
		return
	}
	var actor string
	if userID := requestcontext.UserID(ctx); !userID.IsNil() {
		actor = userID.String()
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(action),
		Subject:   subject,
		ActorID:   actor,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}
