// Package repomanager vends repository implementations for the configured
// storage backend. Repositories are bound per call to a dbx.DBTX so services
// can run them either on the pool or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/phones"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/usertokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	UserTokens(db dbx.DBTX) usertokens.Repository
	Addresses(db dbx.DBTX) addresses.Repository
	Phones(db dbx.DBTX) phones.Repository
}
