package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	branchModels "bloodconnect/internal/branch/models"
	deferralModels "bloodconnect/internal/deferral/models"
	donorModels "bloodconnect/internal/donor/models"
	"bloodconnect/internal/screening/models"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/audit"
	"bloodconnect/pkg/platform/pagination"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/platform/tx"
	"bloodconnect/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

type Store interface {
	Insert(ctx context.Context, screening *models.Screening) error
	FindByID(ctx context.Context, screeningID id.ScreeningID) (*models.Screening, error)
	List(ctx context.Context, offset, limit int) ([]*models.Screening, int, error)
	ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.Screening, error)
}

// DonorStore is the slice of the donor store a screening touches.
type DonorStore interface {
	FindByID(ctx context.Context, donorID id.DonorID) (*donorModels.Donor, error)
	SetLastDonationDate(ctx context.Context, donorID id.DonorID, at time.Time) error
}

type BranchLookup interface {
	FindByID(ctx context.Context, branchID id.BranchID) (*branchModels.Branch, error)
}

type DeferralLookup interface {
	FindByID(ctx context.Context, reasonID id.DeferralReasonID) (*deferralModels.DeferralReason, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	donors         DonorStore
	branches       BranchLookup
	deferrals      DeferralLookup
	tx             tx.Runner
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

func New(store Store, donors DonorStore, branches BranchLookup, deferrals DeferralLookup, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:     store,
		donors:    donors,
		branches:  branches,
		deferrals: deferrals,
		tx:        runner,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCommand records one screening visit. StaffID is only used when the
// caller is not authenticated.
type CreateCommand struct {
	DonorID           id.DonorID
	BranchID          id.BranchID
	StaffID           string
	Vitals            models.Vitals
	Notes             string
	EligibilityStatus string
	DeferralReasonID  *id.DeferralReasonID
	DeferralUntil     *time.Time
}

// Create stores the screening. An eligible screening also stamps the donor's
// last donation date; both writes share one transaction.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*models.Screening, error) {
	now := requestcontext.Now(ctx)
	staffID := cmd.StaffID
	if p, ok := requestcontext.CurrentPrincipal(ctx); ok && p.Username != "" {
		staffID = p.Username
	}

	screening, err := models.NewScreening(id.ScreeningID(uuid.New()), cmd.DonorID, cmd.BranchID,
		staffID, cmd.Vitals, cmd.Notes, cmd.EligibilityStatus, cmd.DeferralReasonID, cmd.DeferralUntil, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.donors.FindByID(txCtx, cmd.DonorID); err != nil {
			return notFound(err, "donor not found")
		}
		if _, err := s.branches.FindByID(txCtx, cmd.BranchID); err != nil {
			return notFound(err, "branch not found")
		}
		if screening.DeferralReasonID != nil {
			reason, err := s.deferrals.FindByID(txCtx, *screening.DeferralReasonID)
			if err != nil {
				return notFound(err, "deferral reason not found")
			}
			if screening.DeferralUntil == nil {
				screening.DeferralUntil = reason.DefaultUntil(now)
			}
		}
		if err := s.store.Insert(txCtx, screening); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save screening")
		}
		if screening.IsEligible() {
			if err := s.donors.SetLastDonationDate(txCtx, cmd.DonorID, screening.CreatedAt); err != nil {
				return notFound(err, "donor not found")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "screening recorded",
		"request_id", requestcontext.RequestID(ctx),
		"screening_id", screening.ID,
		"donor_id", screening.DonorID,
		"eligibility", screening.EligibilityStatus,
	)
	s.emitAudit(ctx, screening)
	return screening, nil
}

func (s *Service) Get(ctx context.Context, screeningID id.ScreeningID) (*models.Screening, error) {
	sc, err := s.store.FindByID(ctx, screeningID)
	if err != nil {
		return nil, notFound(err, "screening not found")
	}
	return sc, nil
}

func (s *Service) List(ctx context.Context, page pagination.Params) (*models.ListResult, error) {
	list, total, err := s.store.List(ctx, page.Offset(), page.PageSize)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list screenings")
	}
	return &models.ListResult{Screenings: list, Total: total}, nil
}

// ListByDonor returns the donor's screenings, newest first.
func (s *Service) ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.Screening, error) {
	if _, err := s.donors.FindByID(ctx, donorID); err != nil {
		return nil, notFound(err, "donor not found")
	}
	list, err := s.store.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list screenings")
	}
	return list, nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record screening")
}

func (s *Service) emitAudit(ctx context.Context, sc *models.Screening) {
	if s.auditPublisher == nil {
		return
	}
	var actor string
	if userID := requestcontext.UserID(ctx); !userID.IsNil() {
		actor = userID.String()
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(audit.EventScreeningRecorded),
		Subject:   sc.DonorID.String(),
		ActorID:   actor,
		Reason:    string(sc.EligibilityStatus),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", audit.EventScreeningRecorded, "error", err)
	}
}
