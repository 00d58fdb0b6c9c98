package models

import "time"

// TokenKind tells apart the tokens that share the user_tokens table, so a
// token issued for one flow cannot be spent on another.
type TokenKind string

const (
	TokenKindRefresh       TokenKind = "refresh"
	TokenKindVerifyEmail   TokenKind = "verify_email"
	TokenKindResetPassword TokenKind = "reset_password"
)

// UserToken is a server-side record of an issued token: a refresh JWT, an
// email verification token or a password reset token. Rows are created on
// issue and deleted on consumption, never updated.
type UserToken struct {
	ID        string
	UserID    string
	Kind      TokenKind
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
