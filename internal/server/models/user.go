// Package models holds the persisted records of the account server.
package models

import "time"

// User is an account. Password is always a bcrypt digest.
type User struct {
	ID         string
	Name       string
	Email      string
	Password   string `json:"-"`
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PublicUser is the part of a User that may leave the server.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}
