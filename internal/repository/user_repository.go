package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gigmarket/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, search string, excludeID uuid.UUID) ([]domain.User, error)
	UpdateName(ctx context.Context, user *domain.User) error
}

const userDirectoryLimit = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := r.db.GetContext(ctx, &exists, query, email)
	return exists, err
}

// List returns the user directory ordered by name. search matches name or
// email case-insensitively; excludeID is left out of the result.
func (r *userRepository) List(ctx context.Context, search string, excludeID uuid.UUID) ([]domain.User, error) {
	users := []domain.User{}
	query := `
		SELECT id, name, email, created_at, updated_at FROM users
		WHERE id <> $1 AND ($2 = '' OR name ILIKE $3 OR email ILIKE $3)
		ORDER BY name, id
		LIMIT $4`

	pattern := "%" + likeEscaper.Replace(search) + "%"
	if err := r.db.SelectContext(ctx, &users, query, excludeID, search, pattern, userDirectoryLimit); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateName(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, query, user.ID, user.Name).Scan(&user.UpdatedAt)
}
