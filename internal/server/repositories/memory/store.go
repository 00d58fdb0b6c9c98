// Package memory keeps every repository in process memory. It backs the
// "memory" storage mode and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
)

// Store holds the tables. Each repository call is atomic under mu.
type Store struct {
	mu        sync.RWMutex
	users     map[string]models.User
	byEmail   map[string]string
	tokens    map[string]models.UserToken
	addresses map[string]models.Address
	phones    map[string]models.Phone

	// phoneTypes plays the user_phone_types lookup table.
	phoneTypes map[string]struct{}

	clock timex.Clock

	// txMu serialises units of work started through Transactor.
	txMu sync.Mutex
}

func NewStore(clock timex.Clock) *Store {
	if clock == nil {
		clock = timex.RealClock{}
	}
	s := &Store{
		users:      map[string]models.User{},
		byEmail:    map[string]string{},
		tokens:     map[string]models.UserToken{},
		addresses:  map[string]models.Address{},
		phones:     map[string]models.Phone{},
		phoneTypes: map[string]struct{}{},
		clock:      clock,
	}
	for _, t := range models.DefaultPhoneTypes {
		s.phoneTypes[t] = struct{}{}
	}
	return s
}

func (s *Store) now() time.Time { return s.clock.Now() }

func (s *Store) Users() *UsersRepository           { return &UsersRepository{s: s} }
func (s *Store) UserTokens() *UserTokensRepository { return &UserTokensRepository{s: s} }
func (s *Store) Addresses() *AddressesRepository   { return &AddressesRepository{s: s} }
func (s *Store) Phones() *PhonesRepository         { return &PhonesRepository{s: s} }

// Transactor runs units of work one at a time. There is no rollback: writes
// made by fn before it fails stay in place.
type Transactor struct {
	s *Store
}

func (s *Store) Transactor() *Transactor { return &Transactor{s: s} }

// Conn returns nil; memory repositories ignore the handle.
func (t *Transactor) Conn() dbx.DBTX { return nil }

func (t *Transactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, nil)
}
