package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 10

// Hasher turns plaintext passwords into digests and checks candidates.
type Hasher interface {
	Hash(plain string) (string, error)
	// Compare returns false, nil on a mismatch; an error means the digest
	// could not be checked at all.
	Compare(plain, digest string) (bool, error)
}

// BcryptHasher implements Hasher with bcrypt. The comparison inside
// bcrypt is constant-time.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's valid range; zero selects
// DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = DefaultBcryptCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int { return h.cost }

func (h *BcryptHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Compare(plain, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ Hasher = (*BcryptHasher)(nil)
