package id

import (
	"crypto/rand"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// New generates a ULID for user records; sortable by creation time.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// NewTokenID generates a random identifier for the jti claim of a bearer token.
func NewTokenID() string {
	return uuid.NewString()
}
