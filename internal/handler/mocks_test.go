package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gigmarket/internal/domain"
	"gigmarket/internal/service/auth"
	"gigmarket/internal/service/notification"
)

// Mocks for services whose packages test against internal/mocks themselves.
type AuthService struct {
	mock.Mock
}

func (m *AuthService) Register(ctx context.Context, input domain.RegisterInput, meta auth.SessionMeta) (*domain.User, *domain.TokenPair, error) {
	args := m.Called(ctx, input, meta)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.TokenPair), args.Error(2)
}

func (m *AuthService) Login(ctx context.Context, input domain.LoginInput, meta auth.SessionMeta) (*domain.User, *domain.TokenPair, error) {
	args := m.Called(ctx, input, meta)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.TokenPair), args.Error(2)
}

func (m *AuthService) RefreshToken(ctx context.Context, refreshToken string, meta auth.SessionMeta) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenPair), args.Error(1)
}

func (m *AuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *AuthService) ValidateAccessToken(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *AuthService) CleanupSessions(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type BidService struct {
	mock.Mock
}

func (m *BidService) Create(ctx context.Context, freelancerID uuid.UUID, input domain.CreateBidInput) (*domain.Bid, error) {
	args := m.Called(ctx, freelancerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *BidService) ListForGig(ctx context.Context, userID, gigID uuid.UUID) ([]domain.Bid, error) {
	args := m.Called(ctx, userID, gigID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bid), args.Error(1)
}

func (m *BidService) ListMine(ctx context.Context, freelancerID uuid.UUID) ([]domain.Bid, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bid), args.Error(1)
}

func (m *BidService) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Bid, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *BidService) Update(ctx context.Context, userID, id uuid.UUID, input domain.UpdateBidInput) (*domain.Bid, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *BidService) Hire(ctx context.Context, userID, bidID uuid.UUID) (*domain.Bid, error) {
	args := m.Called(ctx, userID, bidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *BidService) SetNotificationService(notificationSvc notification.Service) {
	m.Called(notificationSvc)
}
