package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the account does not exist, so a miss costs
// about as much as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("fintrack-dummy-password"), bcrypt.DefaultCost+2)
	return h
})

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password with hash. An empty hash still spends a
// comparison and then fails.
func CheckPassword(hash, password string) error {
	h := []byte(hash)
	if len(h) == 0 {
		h = dummyHash()
	}
	if err := bcrypt.CompareHashAndPassword(h, []byte(password)); err != nil || len(hash) == 0 {
		return ErrInvalidCredentials
	}
	return nil
}
