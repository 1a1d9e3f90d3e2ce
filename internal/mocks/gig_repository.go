package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gigmarket/internal/domain"
)

type GigRepository struct {
	mock.Mock
}

func (m *GigRepository) Create(ctx context.Context, gig *domain.Gig) error {
	args := m.Called(ctx, gig)
	return args.Error(0)
}

func (m *GigRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gig), args.Error(1)
}

func (m *GigRepository) List(ctx context.Context, filter domain.GigFilter, params domain.PaginationParams) ([]domain.Gig, int64, error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).([]domain.Gig), args.Get(1).(int64), args.Error(2)
}

func (m *GigRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Gig, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Gig), args.Error(1)
}

func (m *GigRepository) Update(ctx context.Context, gig *domain.Gig) error {
	args := m.Called(ctx, gig)
	return args.Error(0)
}

func (m *GigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
