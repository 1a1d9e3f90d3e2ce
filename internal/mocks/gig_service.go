package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gigmarket/internal/domain"
)

type GigService struct {
	mock.Mock
}

func (m *GigService) Create(ctx context.Context, ownerID uuid.UUID, input domain.CreateGigInput) (*domain.Gig, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gig), args.Error(1)
}

func (m *GigService) List(ctx context.Context, filter domain.GigFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Gig], error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Gig]), args.Error(1)
}

func (m *GigService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]domain.Gig, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Gig), args.Error(1)
}

func (m *GigService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gig), args.Error(1)
}

func (m *GigService) Update(ctx context.Context, userID, id uuid.UUID, input domain.UpdateGigInput) (*domain.Gig, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gig), args.Error(1)
}

func (m *GigService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *GigService) InvalidateCache(ctx context.Context, id uuid.UUID) {
	m.Called(ctx, id)
}
