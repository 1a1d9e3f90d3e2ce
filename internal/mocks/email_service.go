package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	args := m.Called(ctx, toEmail, name)
	return args.Error(0)
}

func (m *EmailService) SendHiredEmail(ctx context.Context, toEmail, name, gigTitle, gigID string) error {
	args := m.Called(ctx, toEmail, name, gigTitle, gigID)
	return args.Error(0)
}
