package auth

import "github.com/google/uuid"

// NewOpaqueToken returns a random v4 UUID string used for email
// verification and password reset links.
func NewOpaqueToken() string {
	return uuid.NewString()
}
