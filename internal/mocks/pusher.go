package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Pusher struct {
	mock.Mock
}

func (m *Pusher) PushToUser(ctx context.Context, userID uuid.UUID, name string, payload interface{}) error {
	args := m.Called(ctx, userID, name, payload)
	return args.Error(0)
}

func (m *Pusher) Broadcast(ctx context.Context, room, name string, payload interface{}) error {
	args := m.Called(ctx, room, name, payload)
	return args.Error(0)
}
