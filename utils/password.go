package utils

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	passwordMu   sync.RWMutex
	passwordCost = bcrypt.DefaultCost

	dummyOnce sync.Once
	dummyHash []byte
)

// SetPasswordCost sets the bcrypt cost for new hashes. Out-of-range values
// fall back to bcrypt.DefaultCost.
func SetPasswordCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	passwordMu.Lock()
	passwordCost = cost
	passwordMu.Unlock()
}

func currentPasswordCost() int {
	passwordMu.RLock()
	defer passwordMu.RUnlock()
	return passwordCost
}

// HashPassword hashes an account password. Passwords longer than 72 bytes are
// rejected by bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), currentPasswordCost())
	if err != nil {
		return "", errors.Wrap(err, "bcrypt")
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. An empty hash, used for
// unknown usernames, is compared against a throwaway hash so a login for a
// missing account costs as much as one with a wrong password.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		dummyOnce.Do(func() {
			dummyHash, _ = bcrypt.GenerateFromPassword([]byte("hasker-unknown-user"), currentPasswordCost())
		})
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
