package addresses

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

const addressColumns = `id, id_user, state, district, city, house_number, postal_code, created_at, updated_at`

func scanAddress(row *sql.Row) (*models.Address, error) {
	a := &models.Address{}
	err := row.Scan(&a.ID, &a.UserID, &a.State, &a.District, &a.City, &a.HouseNumber, &a.PostalCode, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Address) (*models.Address, error) {
	query :=
		`INSERT INTO user_address (id_user, state, district, city, house_number, postal_code)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, a.UserID, a.State, a.District, a.City, a.HouseNumber, a.PostalCode).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM user_address WHERE id_user = $1`
	return scanAddress(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) Update(ctx context.Context, userID string, patch models.AddressPatch) (*models.Address, error) {
	query :=
		`UPDATE user_address SET
		   state = COALESCE($2, state),
		   district = COALESCE($3, district),
		   city = COALESCE($4, city),
		   house_number = COALESCE($5, house_number),
		   postal_code = COALESCE($6, postal_code),
		   updated_at = now()
		 WHERE id_user = $1
		 RETURNING ` + addressColumns

	row := r.db.QueryRowContext(ctx, query, userID,
		patch.State, patch.District, patch.City, patch.HouseNumber, patch.PostalCode)
	return scanAddress(row)
}
