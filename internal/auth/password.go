package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password sign-up accepts.
const MinPasswordLength = 6

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	const op = "auth.HashPassword"
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// ComparePassword returns nil if password matches hash.
func ComparePassword(hash, password string) error {
	const op = "auth.ComparePassword"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// dummyHash is compared against when the email is unknown so a failed
// lookup costs as much as a wrong password.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("bindvalue-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic("generate dummy hash: " + err.Error())
	}
	return h
}()

func burnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
