// Package users declares the user store and its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// Repository persists accounts. Finders return common.ErrorNotFound when no
// row matches; Create returns common.ErrorAlreadyExists when the email is
// taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	IsEmailVerified(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id string, digest string) error
	MarkEmailVerified(ctx context.Context, id string) error
}
