package bid

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"gigmarket/internal/domain"
	"gigmarket/internal/pkg/validate"
	"gigmarket/internal/repository"
	"gigmarket/internal/service/gig"
	"gigmarket/internal/service/hiring"
	"gigmarket/internal/service/notification"
)

var (
	ErrBidNotFound   = errors.New("bid not found")
	ErrGigNotFound   = errors.New("gig not found")
	ErrGigNotOpen    = errors.New("gig is no longer accepting bids")
	ErrOwnGig        = errors.New("you cannot bid on your own gig")
	ErrAlreadyBid    = errors.New("you have already placed a bid on this gig")
	ErrNotGigOwner   = errors.New("only the gig owner can view its bids")
	ErrNotBidOwner   = errors.New("you can only modify your own bids")
	ErrBidNotPending = errors.New("only pending bids can be modified")
	ErrNotAllowed    = errors.New("you are not allowed to view this bid")
	ErrInvalidBid    = errors.New("invalid bid")
)

type Service interface {
	Create(ctx context.Context, freelancerID uuid.UUID, input domain.CreateBidInput) (*domain.Bid, error)
	ListForGig(ctx context.Context, userID, gigID uuid.UUID) ([]domain.Bid, error)
	ListMine(ctx context.Context, freelancerID uuid.UUID) ([]domain.Bid, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Bid, error)
	Update(ctx context.Context, userID, id uuid.UUID, input domain.UpdateBidInput) (*domain.Bid, error)
	Hire(ctx context.Context, userID, bidID uuid.UUID) (*domain.Bid, error)
	SetNotificationService(notificationSvc notification.Service)
}

type service struct {
	bidRepo         repository.BidRepository
	gigRepo         repository.GigRepository
	hiringSvc       hiring.Service
	gigSvc          gig.Service
	notificationSvc notification.Service
	logger          *slog.Logger
}

func NewService(
	bidRepo repository.BidRepository,
	gigRepo repository.GigRepository,
	hiringSvc hiring.Service,
	gigSvc gig.Service,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		bidRepo:   bidRepo,
		gigRepo:   gigRepo,
		hiringSvc: hiringSvc,
		gigSvc:    gigSvc,
		logger:    logger.With(slog.String("caller", "BidService")),
	}
}

func (s *service) SetNotificationService(notificationSvc notification.Service) {
	s.notificationSvc = notificationSvc
}

func (s *service) Create(ctx context.Context, freelancerID uuid.UUID, input domain.CreateBidInput) (*domain.Bid, error) {
	input.Message = validate.RichText(input.Message)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBid, err)
	}

	g, err := s.gigRepo.GetByID(ctx, input.GigID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGigNotFound
	}
	if g.Status != domain.GigOpen {
		return nil, ErrGigNotOpen
	}
	if g.OwnerID == freelancerID {
		return nil, ErrOwnGig
	}

	exists, err := s.bidRepo.ExistsForFreelancer(ctx, g.ID, freelancerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyBid
	}

	b := &domain.Bid{
		ID:           uuid.New(),
		GigID:        g.ID,
		FreelancerID: freelancerID,
		Message:      input.Message,
		Price:        input.Price,
		Status:       domain.BidPending,
	}

	if err := s.bidRepo.Create(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrGigNotOpen):
			return nil, ErrGigNotOpen
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadyBid
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrGigNotFound
		}
		return nil, err
	}
	b.Gig = g

	if s.gigSvc != nil {
		s.gigSvc.InvalidateCache(ctx, g.ID)
	}
	if s.notificationSvc != nil {
		s.notificationSvc.NotifyNewBid(ctx, b, g)
	}

	return b, nil
}

func (s *service) ListForGig(ctx context.Context, userID, gigID uuid.UUID) ([]domain.Bid, error) {
	g, err := s.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGigNotFound
	}
	if g.OwnerID != userID {
		return nil, ErrNotGigOwner
	}

	bids, err := s.bidRepo.ListByGig(ctx, gigID)
	if err != nil {
		return nil, err
	}
	return nonNil(bids), nil
}

func (s *service) ListMine(ctx context.Context, freelancerID uuid.UUID) ([]domain.Bid, error) {
	bids, err := s.bidRepo.ListByFreelancer(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	return nonNil(bids), nil
}

// GetByID returns the bid to its freelancer or to the owner of its gig.
func (s *service) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Bid, error) {
	b, err := s.bidRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBidNotFound
	}
	if b.FreelancerID != userID && (b.Gig == nil || b.Gig.OwnerID != userID) {
		return nil, ErrNotAllowed
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input domain.UpdateBidInput) (*domain.Bid, error) {
	if input.Message != nil {
		input.Message = lo.ToPtr(validate.RichText(*input.Message))
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBid, err)
	}

	b, err := s.bidRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBidNotFound
	}
	if b.FreelancerID != userID {
		return nil, ErrNotBidOwner
	}
	if b.Status != domain.BidPending {
		return nil, ErrBidNotPending
	}

	if input.Message != nil {
		b.Message = *input.Message
	}
	if input.Price != nil {
		b.Price = *input.Price
	}

	if err := s.bidRepo.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, ErrBidNotPending
		}
		return nil, err
	}
	return b, nil
}

// Hire commits the hire and then hands the result to the fan-out. The
// fan-out runs in the background; its failures never reach the caller.
func (s *service) Hire(ctx context.Context, userID, bidID uuid.UUID) (*domain.Bid, error) {
	result, err := s.hiringSvc.Hire(ctx, bidID, userID)
	if err != nil {
		return nil, err
	}

	if s.gigSvc != nil {
		s.gigSvc.InvalidateCache(ctx, result.Gig.ID)
	}
	if s.notificationSvc != nil {
		s.notificationSvc.AnnounceHire(ctx, result)
	}

	hired := result.Bid
	assigned := result.Gig
	hired.Gig = &assigned
	return &hired, nil
}

func nonNil(bids []domain.Bid) []domain.Bid {
	if bids == nil {
		return []domain.Bid{}
	}
	return bids
}
