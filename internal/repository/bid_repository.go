package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gigmarket/internal/domain"
)

type BidRepository interface {
	Create(ctx context.Context, bid *domain.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error)
	ListByGig(ctx context.Context, gigID uuid.UUID) ([]domain.Bid, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]domain.Bid, error)
	ExistsForFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (bool, error)
	Update(ctx context.Context, bid *domain.Bid) error
}

type bidRepository struct {
	db *sqlx.DB
}

func NewBidRepository(db *sqlx.DB) BidRepository {
	return &bidRepository{db: db}
}

type bidRow struct {
	domain.Bid
	FreelancerName  string           `db:"freelancer_name"`
	FreelancerEmail string           `db:"freelancer_email"`
	GigTitle        string           `db:"gig_title"`
	GigBudget       float64          `db:"gig_budget"`
	GigStatus       domain.GigStatus `db:"gig_status"`
	GigOwnerID      uuid.UUID        `db:"gig_owner_id"`
}

func (row bidRow) toDomain() domain.Bid {
	bid := row.Bid
	bid.Freelancer = &domain.UserSummary{ID: bid.FreelancerID, Name: row.FreelancerName, Email: row.FreelancerEmail}
	bid.Gig = &domain.Gig{
		ID:      bid.GigID,
		Title:   row.GigTitle,
		Budget:  row.GigBudget,
		Status:  row.GigStatus,
		OwnerID: row.GigOwnerID,
	}
	return bid
}

const bidSelect = `
	SELECT b.id, b.gig_id, b.freelancer_id, b.message, b.price, b.status, b.created_at, b.updated_at,
		u.name AS freelancer_name, u.email AS freelancer_email,
		g.title AS gig_title, g.budget AS gig_budget, g.status AS gig_status, g.owner_id AS gig_owner_id
	FROM bids b
	JOIN users u ON u.id = b.freelancer_id
	JOIN gigs g ON g.id = b.gig_id`

// Create inserts a PENDING bid while holding a share lock on the gig row, so a
// concurrent hire either sees the bid and rejects it or commits first and
// makes this insert fail with ErrGigNotOpen.
func (r *bidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var status domain.GigStatus
	err = tx.GetContext(ctx, &status, `SELECT status FROM gigs WHERE id = $1 FOR SHARE`, bid.GigID)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		return err
	}
	if status != domain.GigOpen {
		return ErrGigNotOpen
	}

	query := `
		INSERT INTO bids (id, gig_id, freelancer_id, message, price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	err = tx.QueryRowxContext(ctx, query,
		bid.ID, bid.GigID, bid.FreelancerID, bid.Message, bid.Price, bid.Status,
	).Scan(&bid.CreatedAt, &bid.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *bidRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	var row bidRow
	err := r.db.GetContext(ctx, &row, bidSelect+` WHERE b.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	bid := row.toDomain()
	return &bid, nil
}

func (r *bidRepository) ListByGig(ctx context.Context, gigID uuid.UUID) ([]domain.Bid, error) {
	return r.list(ctx, bidSelect+` WHERE b.gig_id = $1 ORDER BY b.created_at DESC`, gigID)
}

func (r *bidRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]domain.Bid, error) {
	return r.list(ctx, bidSelect+` WHERE b.freelancer_id = $1 ORDER BY b.created_at DESC`, freelancerID)
}

func (r *bidRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Bid, error) {
	var rows []bidRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	bids := make([]domain.Bid, len(rows))
	for i, row := range rows {
		bids[i] = row.toDomain()
	}
	return bids, nil
}

func (r *bidRepository) ExistsForFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM bids WHERE gig_id = $1 AND freelancer_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, gigID, freelancerID)
	return exists, err
}

// Update only touches PENDING bids; anything else yields ErrNotPending.
func (r *bidRepository) Update(ctx context.Context, bid *domain.Bid) error {
	query := `
		UPDATE bids
		SET message = $2, price = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query, bid.ID, bid.Message, bid.Price).Scan(&bid.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotPending
	}
	return err
}
