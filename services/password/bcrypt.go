// Package pwdsvc hashes passwords with bcrypt.
package pwdsvc

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academia/core/user"
)

type BcryptHasher struct {
	cost int
}

var _ user.PasswordHasher = (*BcryptHasher)(nil) // interface compliance check

// NewBcryptHasher returns a hasher using bcrypt.DefaultCost, or bcrypt.MinCost in test mode.
func NewBcryptHasher(testMode bool) *BcryptHasher {
	cost := bcrypt.DefaultCost
	if testMode {
		cost = bcrypt.MinCost
	}
	return &BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(pwd string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pwd), h.cost)
}

func (h BcryptHasher) Verify(pwd string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(pwd)) == nil
}
