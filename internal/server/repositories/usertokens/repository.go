// Package usertokens declares the store of server-side token records and its
// PostgreSQL implementation.
package usertokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// Repository persists issued tokens. Finders return common.ErrorNotFound when
// no row matches.
type Repository interface {
	// Create stores t, assigning an ID when t.ID is empty.
	Create(ctx context.Context, t *models.UserToken) (*models.UserToken, error)

	// FindByUserID returns the most recently created token of the given kind.
	FindByUserID(ctx context.Context, userID string, kind models.TokenKind) (*models.UserToken, error)

	FindByToken(ctx context.Context, token string) (*models.UserToken, error)

	FindByUserIDAndToken(ctx context.Context, userID string, token string) (*models.UserToken, error)

	// DeleteByID reports whether a row was removed. Two callers racing to
	// delete the same row see true exactly once.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// DeleteExpired removes every token whose expiry is at or before now and
	// returns how many rows went away.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
