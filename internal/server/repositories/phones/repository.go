// Package phones stores the phone number attached to a user. A user has at
// most one.
package phones

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Phone) (*models.Phone, error)
	FindByUserID(ctx context.Context, userID string) (*models.Phone, error)
	Update(ctx context.Context, userID string, patch models.PhonePatch) (*models.Phone, error)
}
