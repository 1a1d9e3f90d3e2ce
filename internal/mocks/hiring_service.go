package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gigmarket/internal/service/hiring"
)

type HiringService struct {
	mock.Mock
}

func (m *HiringService) Hire(ctx context.Context, bidID, userID uuid.UUID) (*hiring.Result, error) {
	args := m.Called(ctx, bidID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hiring.Result), args.Error(1)
}
