package service

import (
	"context"
	"errors"

	"bloodconnect/internal/deferral/models"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/sentinel"
)

type Store interface {
	FindByID(ctx context.Context, reasonID id.DeferralReasonID) (*models.DeferralReason, error)
	List(ctx context.Context) ([]*models.DeferralReason, error)
}

// Service exposes the read-only deferral reason catalogue.
type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]*models.DeferralReason, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list deferral reasons")
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, reasonID id.DeferralReasonID) (*models.DeferralReason, error) {
	r, err := s.store.FindByID(ctx, reasonID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "deferral reason not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load deferral reason")
	}
	return r, nil
}
