package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("pin hashing failed")
	MinPinLen        = 4
)

// PinHasher provides interface for profile PIN operations
type PinHasher interface {
	Hash(pin string) (string, error)
	Compare(hashedPin, pin string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new PIN hasher using bcrypt
func NewBcryptHasher(cost int) PinHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(pin string) (string, error) {
	if len(pin) < MinPinLen {
		return "", errors.New("pin too short")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedPin, pin string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPin), []byte(pin))
}
