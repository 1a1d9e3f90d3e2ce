package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gigmarket/internal/domain"
)

type BidRepository struct {
	mock.Mock
}

func (m *BidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	args := m.Called(ctx, bid)
	return args.Error(0)
}

func (m *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *BidRepository) ListByGig(ctx context.Context, gigID uuid.UUID) ([]domain.Bid, error) {
	args := m.Called(ctx, gigID)
	return args.Get(0).([]domain.Bid), args.Error(1)
}

func (m *BidRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]domain.Bid, error) {
	args := m.Called(ctx, freelancerID)
	return args.Get(0).([]domain.Bid), args.Error(1)
}

func (m *BidRepository) ExistsForFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, gigID, freelancerID)
	return args.Bool(0), args.Error(1)
}

func (m *BidRepository) Update(ctx context.Context, bid *domain.Bid) error {
	args := m.Called(ctx, bid)
	return args.Error(0)
}
