package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bloodconnect/internal/coupon"
	"bloodconnect/internal/donor/metrics"
	"bloodconnect/internal/donor/models"
	screeningModels "bloodconnect/internal/screening/models"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/audit"
	"bloodconnect/pkg/platform/pagination"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Store persists donors. Insert reports a duplicate coupon code with
// coupon.ErrCodeTaken and a duplicate national ID with sentinel.ErrAlreadyUsed.
type Store interface {
	MaxNumericCode(ctx context.Context) (int64, error)
	Insert(ctx context.Context, donor *models.Donor) error
	Update(ctx context.Context, donor *models.Donor) error
	FindByID(ctx context.Context, donorID id.DonorID) (*models.Donor, error)
	FindByCouponCode(ctx context.Context, code string) (*models.Donor, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.Donor, int, error)
}

type ScreeningLister interface {
	ListByDonor(ctx context.Context, donorID id.DonorID) ([]*screeningModels.Screening, error)
}

// Allocator issues coupon codes atomically with the donor insert.
type Allocator interface {
	Allocate(ctx context.Context, commit coupon.CommitFunc) (coupon.Code, error)
	Preview(ctx context.Context) (coupon.Code, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service implements donor registration and lookups.
type Service struct {
	donors         Store
	screenings     ScreeningLister
	allocator      Allocator
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
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

func New(donors Store, screenings ScreeningLister, allocator Allocator, opts ...Option) *Service {
	s := &Service{
		donors:     donors,
		screenings: screenings,
		allocator:  allocator,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterCommand is a validated registration request.
type RegisterCommand struct {
	NationalID string
	Profile    models.Profile
}

// Register validates the donor, rejects a known national ID and then commits
// the donor together with a freshly allocated coupon code.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*models.Donor, error) {
	donor, err := models.NewDonor(id.DonorID(uuid.New()), cmd.NationalID, cmd.Profile, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	exists, err := s.donors.ExistsByNationalID(ctx, donor.NationalID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check national ID")
	}
	if exists {
		s.metrics.IncrementRegistrationRejected("duplicate_national_id")
		return nil, dErrors.New(dErrors.CodeConflict, "a donor with this national ID already exists")
	}

	code, err := s.allocator.Allocate(ctx, func(txCtx context.Context, code coupon.Code) error {
		donor.CouponCode = code.String()
		return s.donors.Insert(txCtx, donor)
	})
	if err != nil {
		return nil, s.translateRegisterError(ctx, err)
	}
	donor.CouponCode = code.String()

	s.metrics.IncrementRegistrations()
	s.logger.InfoContext(ctx, "donor registered",
		"request_id", requestcontext.RequestID(ctx),
		"donor_id", donor.ID,
		"coupon_code", donor.CouponCode,
	)
	s.emitAudit(ctx, audit.EventDonorRegistered, donor.ID.String())
	return donor, nil
}

func (s *Service) translateRegisterError(ctx context.Context, err error) error {
	var conflict *coupon.ConflictError
	switch {
	case errors.As(err, &conflict):
		s.metrics.IncrementRegistrationRejected("coupon_conflict")
		return dErrors.Wrap(err, dErrors.CodeConflict, "could not allocate a coupon code, please retry")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		s.metrics.IncrementRegistrationRejected("duplicate_national_id")
		return dErrors.New(dErrors.CodeConflict, "a donor with this national ID already exists")
	case dErrors.HasCode(err, dErrors.CodeTimeout):
		return err
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	s.logger.ErrorContext(ctx, "donor registration failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register donor")
}

func (s *Service) Get(ctx context.Context, donorID id.DonorID) (*models.Donor, error) {
	donor, err := s.donors.FindByID(ctx, donorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}
	return donor, nil
}

// GetByCoupon looks a donor up by coupon code, ignoring case.
func (s *Service) GetByCoupon(ctx context.Context, code string) (*models.Donor, error) {
	code = coupon.Normalize(code)
	if code == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "coupon code is required")
	}
	donor, err := s.donors.FindByCouponCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "No donor found with this coupon code")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}
	return donor, nil
}

// List returns one page of donors, newest first.
func (s *Service) List(ctx context.Context, page pagination.Params) (*models.ListResult, error) {
	donors, total, err := s.donors.List(ctx, page.Offset(), page.PageSize)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donors")
	}
	return &models.ListResult{Donors: donors, Total: total}, nil
}

// Update replaces the donor's profile. National ID and coupon code never change.
func (s *Service) Update(ctx context.Context, donorID id.DonorID, profile models.Profile) (*models.Donor, error) {
	donor, err := s.Get(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if err := donor.Apply(profile, requestcontext.Now(ctx)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	if err := s.donors.Update(ctx, donor); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update donor")
	}
	s.emitAudit(ctx, audit.EventDonorUpdated, donor.ID.String())
	return donor, nil
}

// Screenings lists the donor's screening visits, newest first.
func (s *Service) Screenings(ctx context.Context, donorID id.DonorID) ([]*screeningModels.Screening, error) {
	if _, err := s.Get(ctx, donorID); err != nil {
		return nil, err
	}
	list, err := s.screenings.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list screenings")
	}
	return list, nil
}

// NextCoupon previews the next coupon code. Nothing is reserved.
func (s *Service) NextCoupon(ctx context.Context) (string, error) {
	code, err := s.allocator.Preview(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute next coupon code")
	}
	return code.String(), nil
}

func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, subject string) {
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
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", action,
			"error", err,
		)
	}
}
