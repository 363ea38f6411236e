package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"bloodconnect/internal/branch/models"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/requestcontext"
)

type Store interface {
	Insert(ctx context.Context, b *models.Branch) error
	Update(ctx context.Context, b *models.Branch) error
	FindByID(ctx context.Context, branchID id.BranchID) (*models.Branch, error)
	ListActive(ctx context.Context) ([]*models.Branch, error)
}

// Service manages donation branches.
type Service struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

func (s *Service) ListActive(ctx context.Context) ([]*models.Branch, error) {
	list, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list branches")
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, branchID id.BranchID) (*models.Branch, error) {
	b, err := s.store.FindByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "branch not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load branch")
	}
	return b, nil
}

func (s *Service) Create(ctx context.Context, name, address string, active bool) (*models.Branch, error) {
	b, err := models.NewBranch(id.BranchID(uuid.New()), name, address, active, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create branch")
	}
	s.logger.InfoContext(ctx, "branch created",
		"request_id", requestcontext.RequestID(ctx),
		"branch_id", b.ID,
	)
	return b, nil
}

func (s *Service) Update(ctx context.Context, branchID id.BranchID, name, address string, active bool) (*models.Branch, error) {
	b, err := s.Get(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if err := b.Apply(name, address, active, requestcontext.Now(ctx)); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if err := s.store.Update(ctx, b); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "branch not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update branch")
	}
	return b, nil
}
