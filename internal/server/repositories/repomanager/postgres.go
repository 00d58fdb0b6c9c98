package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/phones"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/usertokens"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories and runs
// the embedded goose migrations.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) UserTokens(db dbx.DBTX) usertokens.Repository {
	return usertokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Addresses(db dbx.DBTX) addresses.Repository {
	return addresses.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Phones(db dbx.DBTX) phones.Repository {
	return phones.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// OpenPostgres opens a pgx-backed *sql.DB and checks it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
