package hiring

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"gigmarket/internal/domain"
	"gigmarket/internal/repository"
)

var (
	ErrBidNotFound   = errors.New("bid not found")
	ErrNotGigOwner   = errors.New("only the gig owner can hire freelancers")
	ErrBidNotPending = errors.New("bid has already been hired or rejected")
	ErrGigNotOpen    = errors.New("gig is no longer accepting bids")
)

// Result is what a committed hire changed.
type Result struct {
	Bid      domain.Bid
	Gig      domain.Gig
	Rejected []domain.Bid
}

type Service interface {
	Hire(ctx context.Context, bidID, userID uuid.UUID) (*Result, error)
}

type service struct {
	repo   repository.HireRepository
	logger *slog.Logger
}

func NewService(repo repository.HireRepository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:   repo,
		logger: logger.With(slog.String("caller", "HiringService")),
	}
}

// Hire moves the bid's gig from OPEN to ASSIGNED, marks the bid HIRED and
// rejects every other PENDING bid on the gig, all in one transaction.
// The checks run once against a plain read and again under the gig row lock;
// only the second pass decides the outcome.
func (s *service) Hire(ctx context.Context, bidID, userID uuid.UUID) (*Result, error) {
	bid, err := s.repo.GetBidWithGig(ctx, bidID)
	if err != nil {
		return nil, s.infraError("load bid", bidID, err)
	}
	if bid == nil {
		return nil, ErrBidNotFound
	}
	if bid.GigOwnerID != userID {
		return nil, ErrNotGigOwner
	}
	if bid.Status != domain.BidPending {
		return nil, ErrBidNotPending
	}
	if bid.GigStatus != domain.GigOpen {
		return nil, ErrGigNotOpen
	}

	var result Result
	err = s.repo.WithinTx(ctx, func(tx repository.HireTx) error {
		gig, err := tx.LockGig(ctx, bid.GigID)
		if err != nil {
			return err
		}
		if gig == nil {
			return ErrBidNotFound
		}
		if gig.OwnerID != userID {
			return ErrNotGigOwner
		}
		// The race loser lands here once the winner commits.
		if gig.Status != domain.GigOpen {
			return ErrGigNotOpen
		}

		status, err := tx.GetBidStatus(ctx, bidID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBidNotFound
		}
		if err != nil {
			return err
		}
		if status != domain.BidPending {
			return ErrBidNotPending
		}

		hired, err := tx.MarkBidHired(ctx, bidID)
		if errors.Is(err, repository.ErrNotPending) {
			return ErrBidNotPending
		}
		if err != nil {
			return err
		}

		rejected, err := tx.RejectPendingBids(ctx, bid.GigID, bidID)
		if err != nil {
			return err
		}

		assigned, err := tx.AssignGig(ctx, bid.GigID, hired.FreelancerID)
		if errors.Is(err, repository.ErrGigNotOpen) {
			return ErrGigNotOpen
		}
		if err != nil {
			return err
		}

		result = Result{Bid: *hired, Gig: *assigned, Rejected: rejected}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrBidNotFound), errors.Is(err, ErrNotGigOwner),
		errors.Is(err, ErrBidNotPending), errors.Is(err, ErrGigNotOpen):
		return nil, err
	case repository.IsTxConflict(err):
		s.logger.Info("hire lost a concurrent transaction",
			slog.String("bid_id", bidID.String()), slog.Any("error", err))
		return nil, ErrGigNotOpen
	default:
		return nil, s.infraError("commit hire", bidID, err)
	}

	if result.Rejected == nil {
		result.Rejected = []domain.Bid{}
	}

	s.logger.Info("freelancer hired",
		slog.String("bid_id", bidID.String()),
		slog.String("gig_id", result.Gig.ID.String()),
		slog.String("freelancer_id", result.Bid.FreelancerID.String()),
		slog.Int("rejected", len(result.Rejected)))

	return &result, nil
}

func (s *service) infraError(op string, bidID uuid.UUID, err error) error {
	s.logger.Error("hire failed",
		slog.String("op", op), slog.String("bid_id", bidID.String()), slog.Any("error", err))
	return fmt.Errorf("%s: %w", op, err)
}
