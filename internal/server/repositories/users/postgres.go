package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, password, is_verified, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (name, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_verified, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, user.Name, user.Email, user.Password).
		Scan(&user.ID, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) IsEmailVerified(ctx context.Context, email string) (bool, error) {
	query := `SELECT is_verified FROM users WHERE email = $1`

	var verified bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&verified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return verified, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, digest string) error {
	query :=
		`UPDATE users SET password = $2, updated_at = now()
		 WHERE id = $1`
	return r.execOne(ctx, query, id, digest)
}

func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, id string) error {
	query :=
		`UPDATE users SET is_verified = TRUE, updated_at = now()
		 WHERE id = $1`
	return r.execOne(ctx, query, id)
}

// execOne runs an UPDATE expected to touch exactly one row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
