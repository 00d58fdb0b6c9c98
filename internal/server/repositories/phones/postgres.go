package phones

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// PostgresRepository implements Repository on the user_phones table. The
// phone type is stored as a reference into user_phone_types; a type name with
// no row there is reported as common.ErrorUnknownReference. Create maps the
// unique index on id_user to common.ErrorAlreadyExists.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const phoneColumns = `p.id, p.id_user, t.type, p.phone_number, p.created_at, p.updated_at`

func scanPhone(row *sql.Row) (*models.Phone, error) {
	p := &models.Phone{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Type, &p.PhoneNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Phone) (*models.Phone, error) {
	query :=
		`INSERT INTO user_phones (id_user, id_user_phone_types, phone_number)
		 SELECT $1, t.id, $3 FROM user_phone_types t WHERE t.type = $2
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Type, p.PhoneNumber).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrorUnknownReference
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*models.Phone, error) {
	query :=
		`SELECT ` + phoneColumns + `
		 FROM user_phones p JOIN user_phone_types t ON t.id = p.id_user_phone_types
		 WHERE p.id_user = $1`
	return scanPhone(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) Update(ctx context.Context, userID string, patch models.PhonePatch) (*models.Phone, error) {
	var typeID *string
	if patch.Type != nil {
		id, err := r.phoneTypeID(ctx, *patch.Type)
		if err != nil {
			return nil, err
		}
		typeID = &id
	}

	query :=
		`UPDATE user_phones p SET
		   id_user_phone_types = COALESCE($2, p.id_user_phone_types),
		   phone_number = COALESCE($3, p.phone_number),
		   updated_at = now()
		 FROM user_phone_types t
		 WHERE p.id_user = $1 AND t.id = COALESCE($2, p.id_user_phone_types)
		 RETURNING ` + phoneColumns
	return scanPhone(r.db.QueryRowContext(ctx, query, userID, typeID, patch.PhoneNumber))
}

func (r *PostgresRepository) phoneTypeID(ctx context.Context, name string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM user_phone_types WHERE type = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorUnknownReference
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}
