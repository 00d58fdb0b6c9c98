package phones

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var phoneRowColumns = []string{"id", "id_user", "type", "phone_number", "created_at", "updated_at"}

const (
	qInsert = `(?s)^INSERT\s+INTO\s+user_phones\s*\(id_user,\s*id_user_phone_types,\s*phone_number\)\s*SELECT\s+\$1,\s*t\.id,\s*\$3\s+FROM\s+user_phone_types\s+t\s+WHERE\s+t\.type\s*=\s*\$2\s*RETURNING\s+id,\s*created_at,\s*updated_at$`
	qSelect = `(?s)^SELECT\s+p\.id,\s*p\.id_user,\s*t\.type,\s*p\.phone_number,\s*p\.created_at,\s*p\.updated_at\s+FROM\s+user_phones\s+p\s+JOIN\s+user_phone_types\s+t\s+ON\s+t\.id\s*=\s*p\.id_user_phone_types\s+WHERE\s+p\.id_user\s*=\s*\$1$`
	qTypeID = `^SELECT\s+id\s+FROM\s+user_phone_types\s+WHERE\s+type\s*=\s*\$1$`
	qUpdate = `(?s)^UPDATE\s+user_phones\s+p\s+SET\s+id_user_phone_types\s*=\s*COALESCE\(\$2,\s*p\.id_user_phone_types\),\s*phone_number\s*=\s*COALESCE\(\$3,\s*p\.phone_number\),.+FROM\s+user_phone_types\s+t\s+WHERE\s+p\.id_user\s*=\s*\$1.+RETURNING.+$`
)

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(qInsert).
		WithArgs("u-1", "cellphone", "+5511999990000").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("p-1", now, now))

	got, err := repo.Create(context.Background(), &models.Phone{UserID: "u-1", Type: "cellphone", PhoneNumber: "+5511999990000"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Errors(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qInsert).WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	mock.ExpectQuery(qInsert).WillReturnError(errors.New("db down"))
	mock.ExpectQuery(qInsert).WithArgs("u-1", "fax", "5550100").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))

	_, err := repo.Create(context.Background(), &models.Phone{UserID: "u-1"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = repo.Create(context.Background(), &models.Phone{UserID: "u-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")

	_, err = repo.Create(context.Background(), &models.Phone{UserID: "u-1", Type: "fax", PhoneNumber: "5550100"})
	assert.ErrorIs(t, err, common.ErrorUnknownReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUserID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(qSelect).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(phoneRowColumns).AddRow("p-1", "u-1", "home", "5550100", now, now))
	mock.ExpectQuery(qSelect).WithArgs("u-2").WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByUserID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "home", got.Type)

	_, err = repo.FindByUserID(context.Background(), "u-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	number := "5550199"

	mock.ExpectQuery(qUpdate).
		WithArgs("u-1", nil, number).
		WillReturnRows(sqlmock.NewRows(phoneRowColumns).AddRow("p-1", "u-1", "home", number, now, now))
	mock.ExpectQuery(qUpdate).WithArgs("u-2", nil, nil).WillReturnError(sql.ErrNoRows)

	got, err := repo.Update(context.Background(), "u-1", models.PhonePatch{PhoneNumber: &number})
	require.NoError(t, err)
	assert.Equal(t, number, got.PhoneNumber)
	assert.Equal(t, "home", got.Type)

	_, err = repo.Update(context.Background(), "u-2", models.PhonePatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_Type(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	work, fax := "work", "fax"

	mock.ExpectQuery(qTypeID).WithArgs("work").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("type-work"))
	mock.ExpectQuery(qUpdate).WithArgs("u-1", "type-work", nil).
		WillReturnRows(sqlmock.NewRows(phoneRowColumns).AddRow("p-1", "u-1", "work", "5550100", now, now))
	mock.ExpectQuery(qTypeID).WithArgs("fax").WillReturnError(sql.ErrNoRows)

	got, err := repo.Update(context.Background(), "u-1", models.PhonePatch{Type: &work})
	require.NoError(t, err)
	assert.Equal(t, "work", got.Type)

	_, err = repo.Update(context.Background(), "u-1", models.PhonePatch{Type: &fax})
	assert.ErrorIs(t, err, common.ErrorUnknownReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}
