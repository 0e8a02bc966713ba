// Package otpcode generates numeric one-time passcodes and their bcrypt digests.
package otpcode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Length is the number of digits in every generated code.
const Length = 6

// Cost is the bcrypt work factor applied to codes.
const Cost = 10

var upper = big.NewInt(1_000_000)

// Generate returns a uniformly distributed zero-padded 6-digit code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", Length, n.Int64()), nil
}

// Hash returns the salted bcrypt digest of code.
func Hash(code string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(code), Cost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	return string(h), nil
}

// Compare reports whether code matches digest.
func Compare(code, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(code)) == nil
}
