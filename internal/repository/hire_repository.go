package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gigmarket/internal/domain"
)

// HireRepository is the store behind the hiring transition: a point read of a
// bid joined with its gig, and a unit of work for the conditional writes.
type HireRepository interface {
	GetBidWithGig(ctx context.Context, bidID uuid.UUID) (*domain.BidWithGig, error)
	WithinTx(ctx context.Context, fn func(tx HireTx) error) error
}

// HireTx is the set of statements allowed inside a hiring transaction.
// LockGig must be called first; it holds the gig row until commit or rollback.
type HireTx interface {
	LockGig(ctx context.Context, gigID uuid.UUID) (*domain.Gig, error)
	GetBidStatus(ctx context.Context, bidID uuid.UUID) (domain.BidStatus, error)
	MarkBidHired(ctx context.Context, bidID uuid.UUID) (*domain.Bid, error)
	RejectPendingBids(ctx context.Context, gigID, hiredBidID uuid.UUID) ([]domain.Bid, error)
	AssignGig(ctx context.Context, gigID, freelancerID uuid.UUID) (*domain.Gig, error)
}

type hireRepository struct {
	db *sqlx.DB
}

func NewHireRepository(db *sqlx.DB) HireRepository {
	return &hireRepository{db: db}
}

func (r *hireRepository) GetBidWithGig(ctx context.Context, bidID uuid.UUID) (*domain.BidWithGig, error) {
	var bid domain.BidWithGig
	query := `
		SELECT b.id, b.gig_id, b.freelancer_id, b.message, b.price, b.status, b.created_at, b.updated_at,
			g.title AS gig_title, g.owner_id AS gig_owner_id, g.status AS gig_status
		FROM bids b
		JOIN gigs g ON g.id = b.gig_id
		WHERE b.id = $1`

	err := r.db.GetContext(ctx, &bid, query, bidID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// WithinTx runs fn in a READ COMMITTED transaction. Serialization between
// concurrent hires comes from the row lock LockGig takes, so a second
// transaction blocks on the gig row and then re-reads the committed status.
func (r *hireRepository) WithinTx(ctx context.Context, fn func(tx HireTx) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&hireTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type hireTx struct {
	tx *sqlx.Tx
}

func (t *hireTx) LockGig(ctx context.Context, gigID uuid.UUID) (*domain.Gig, error) {
	var gig domain.Gig
	query := `
		SELECT id, title, description, budget, status, owner_id, hired_freelancer_id, created_at, updated_at
		FROM gigs WHERE id = $1
		FOR UPDATE`

	err := t.tx.GetContext(ctx, &gig, query, gigID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

func (t *hireTx) GetBidStatus(ctx context.Context, bidID uuid.UUID) (domain.BidStatus, error) {
	var status domain.BidStatus
	err := t.tx.GetContext(ctx, &status, `SELECT status FROM bids WHERE id = $1 FOR UPDATE`, bidID)
	return status, err
}

func (t *hireTx) MarkBidHired(ctx context.Context, bidID uuid.UUID) (*domain.Bid, error) {
	var bid domain.Bid
	query := `
		UPDATE bids SET status = 'HIRED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING id, gig_id, freelancer_id, message, price, status, created_at, updated_at`

	err := t.tx.GetContext(ctx, &bid, query, bidID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

func (t *hireTx) RejectPendingBids(ctx context.Context, gigID, hiredBidID uuid.UUID) ([]domain.Bid, error) {
	var bids []domain.Bid
	query := `
		UPDATE bids SET status = 'REJECTED', updated_at = NOW()
		WHERE gig_id = $1 AND id <> $2 AND status = 'PENDING'
		RETURNING id, gig_id, freelancer_id, message, price, status, created_at, updated_at`

	if err := t.tx.SelectContext(ctx, &bids, query, gigID, hiredBidID); err != nil {
		return nil, err
	}
	return bids, nil
}

func (t *hireTx) AssignGig(ctx context.Context, gigID, freelancerID uuid.UUID) (*domain.Gig, error) {
	var gig domain.Gig
	query := `
		UPDATE gigs SET status = 'ASSIGNED', hired_freelancer_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'OPEN'
		RETURNING id, title, description, budget, status, owner_id, hired_freelancer_id, created_at, updated_at`

	err := t.tx.GetContext(ctx, &gig, query, gigID, freelancerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGigNotOpen
	}
	if err != nil {
		return nil, err
	}
	return &gig, nil
}
