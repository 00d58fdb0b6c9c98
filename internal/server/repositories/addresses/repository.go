// Package addresses stores the postal address attached to a user. A user has
// at most one.
package addresses

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

type Repository interface {
	// Create returns common.ErrorAlreadyExists when the user already has an
	// address.
	Create(ctx context.Context, a *models.Address) (*models.Address, error)
	FindByUserID(ctx context.Context, userID string) (*models.Address, error)
	// Update applies the non-nil fields of patch and returns the stored row,
	// or common.ErrorNotFound when the user has no address.
	Update(ctx context.Context, userID string, patch models.AddressPatch) (*models.Address, error)
}
