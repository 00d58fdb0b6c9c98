package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/phones"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/usertokens"
)

// InMemoryRepositoryManager serves every repository from one memory.Store.
// The db handle passed to the factories is ignored.
type InMemoryRepositoryManager struct {
	store *memory.Store
}

func NewInMemoryRepositoryManager(store *memory.Store) *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{store: store}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.store.Users() }

func (m *InMemoryRepositoryManager) UserTokens(dbx.DBTX) usertokens.Repository {
	return m.store.UserTokens()
}

func (m *InMemoryRepositoryManager) Addresses(dbx.DBTX) addresses.Repository {
	return m.store.Addresses()
}

func (m *InMemoryRepositoryManager) Phones(dbx.DBTX) phones.Repository { return m.store.Phones() }

// Transactor returns the lock-based transactor matching this store.
func (m *InMemoryRepositoryManager) Transactor() dbx.Transactor { return m.store.Transactor() }
