package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies account passwords with bcrypt.
type PasswordHasher struct {
	cost int

	decoyOnce sync.Once
	decoy     []byte
}

// NewPasswordHasher clamps cost into bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches reports whether plain is the password behind hashed. Only a
// malformed hash is an error.
func (h *PasswordHasher) Matches(hashed, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// Burn performs one comparison against a fixed decoy hash. Login calls it
// when the email is unknown.
func (h *PasswordHasher) Burn(plain string) {
	h.decoyOnce.Do(func() {
		h.decoy, _ = bcrypt.GenerateFromPassword([]byte("lostfound-decoy"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.decoy, []byte(plain))
}
