package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gigmarket/internal/domain"
)

type GigRepository interface {
	Create(ctx context.Context, gig *domain.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Gig, error)
	List(ctx context.Context, filter domain.GigFilter, params domain.PaginationParams) ([]domain.Gig, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Gig, error)
	Update(ctx context.Context, gig *domain.Gig) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gigRepository struct {
	db *sqlx.DB
}

func NewGigRepository(db *sqlx.DB) GigRepository {
	return &gigRepository{db: db}
}

type gigRow struct {
	domain.Gig
	OwnerName  string `db:"owner_name"`
	OwnerEmail string `db:"owner_email"`
}

func (row gigRow) toDomain() domain.Gig {
	gig := row.Gig
	gig.Owner = &domain.UserSummary{ID: gig.OwnerID, Name: row.OwnerName, Email: row.OwnerEmail}
	return gig
}

const gigSelect = `
	SELECT g.id, g.title, g.description, g.budget, g.status, g.owner_id, g.hired_freelancer_id,
		g.created_at, g.updated_at,
		(SELECT COUNT(*) FROM bids b WHERE b.gig_id = g.id) AS bid_count,
		u.name AS owner_name, u.email AS owner_email
	FROM gigs g
	JOIN users u ON u.id = g.owner_id`

func (r *gigRepository) Create(ctx context.Context, gig *domain.Gig) error {
	query := `
		INSERT INTO gigs (id, title, description, budget, status, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		gig.ID, gig.Title, gig.Description, gig.Budget, gig.Status, gig.OwnerID,
	).Scan(&gig.CreatedAt, &gig.UpdatedAt)
}

func (r *gigRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Gig, error) {
	var row gigRow
	err := r.db.GetContext(ctx, &row, gigSelect+` WHERE g.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	gig := row.toDomain()
	return &gig, nil
}

func (r *gigRepository) List(ctx context.Context, filter domain.GigFilter, params domain.PaginationParams) ([]domain.Gig, int64, error) {
	params.Validate()

	var conds []string
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("g.status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("g.title ILIKE $%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conds = append(conds, fmt.Sprintf("g.owner_id = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM gigs g`+where, args...); err != nil {
		return nil, 0, err
	}

	query := gigSelect + where + fmt.Sprintf(`
		ORDER BY g.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	var rows []gigRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	gigs := make([]domain.Gig, len(rows))
	for i, row := range rows {
		gigs[i] = row.toDomain()
	}
	return gigs, total, nil
}

func (r *gigRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Gig, error) {
	var rows []gigRow
	query := gigSelect + ` WHERE g.owner_id = $1 ORDER BY g.created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, err
	}

	gigs := make([]domain.Gig, len(rows))
	for i, row := range rows {
		gigs[i] = row.toDomain()
	}
	return gigs, nil
}

// Update only touches OPEN gigs; an assigned gig yields ErrGigNotOpen.
func (r *gigRepository) Update(ctx context.Context, gig *domain.Gig) error {
	query := `
		UPDATE gigs
		SET title = $2, description = $3, budget = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'OPEN'
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query, gig.ID, gig.Title, gig.Description, gig.Budget).Scan(&gig.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrGigNotOpen
	}
	return err
}

// Delete refuses gigs that have received bids.
func (r *gigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM gigs WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM bids WHERE gig_id = $1)`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHasBids
	}
	return nil
}
