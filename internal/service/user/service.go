package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"gigmarket/internal/domain"
	"gigmarket/internal/pkg/validate"
	"gigmarket/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidUser  = errors.New("invalid user")
)

type Service interface {
	List(ctx context.Context, callerID uuid.UUID, search string) ([]domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input domain.UpdateUserInput) (*domain.User, error)
}

type service struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewService(userRepo repository.UserRepository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		userRepo: userRepo,
		logger:   logger.With(slog.String("caller", "UserService")),
	}
}

// List is the directory used to pick people to work with. The caller never
// appears in their own results.
func (s *service) List(ctx context.Context, callerID uuid.UUID, search string) ([]domain.User, error) {
	return s.userRepo.List(ctx, strings.TrimSpace(search), callerID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input domain.UpdateUserInput) (*domain.User, error) {
	if input.Name != nil {
		input.Name = lo.ToPtr(validate.PlainText(*input.Name))
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name == nil || *input.Name == u.Name {
		return u, nil
	}

	u.Name = *input.Name
	if err := s.userRepo.UpdateName(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("user_id", id.String()))
	return u, nil
}
