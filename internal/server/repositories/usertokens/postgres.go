package usertokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/oklog/ulid/v2"
)

// PostgresRepository implements Repository over dbx.DBTX, so it runs the same
// against *sql.DB and *sql.Tx.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tokenColumns = `id, user_id, kind, token, expires_at, created_at`

func scanToken(row *sql.Row) (*models.UserToken, error) {
	t := &models.UserToken{}
	var kind string
	if err := row.Scan(&t.ID, &t.UserID, &kind, &t.Token, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	t.Kind = models.TokenKind(kind)
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.UserToken) (*models.UserToken, error) {
	if t.ID == "" {
		t.ID = ulid.Make().String()
	}

	query :=
		`INSERT INTO user_tokens (id, user_id, kind, token, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, t.ID, t.UserID, string(t.Kind), t.Token, t.ExpiresAt).
		Scan(&t.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string, kind models.TokenKind) (*models.UserToken, error) {
	query :=
		`SELECT ` + tokenColumns + ` FROM user_tokens
		 WHERE user_id = $1 AND kind = $2
		 ORDER BY created_at DESC
		 LIMIT 1`
	return scanToken(r.db.QueryRowContext(ctx, query, userID, string(kind)))
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.UserToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM user_tokens WHERE token = $1`
	return scanToken(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) FindByUserIDAndToken(ctx context.Context, userID string, token string) (*models.UserToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM user_tokens WHERE user_id = $1 AND token = $2`
	return scanToken(r.db.QueryRowContext(ctx, query, userID, token))
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
