package redisinfra

import (
	"context"
	"time"

	"github.com/go-otp-auth/internal/domain"
)

const (
	registrationPrefix = "temp_token"
	registrationValid  = "valid"
)

// RegistrationTokenRepo tracks which emails may still complete registration.
type RegistrationTokenRepo struct {
	store *Store
}

func NewRegistrationTokenRepo(store *Store) *RegistrationTokenRepo {
	return &RegistrationTokenRepo{store: store}
}

func registrationKey(email string) string { return registrationPrefix + ":" + email }

func (r *RegistrationTokenRepo) Save(ctx context.Context, email string, ttl time.Duration) error {
	return r.store.Put(ctx, registrationKey(email), []byte(registrationValid), ttl)
}

func (r *RegistrationTokenRepo) Exists(ctx context.Context, email string) (bool, error) {
	return r.store.Exists(ctx, registrationKey(email))
}

// Consume deletes the marker for email; domain.ErrBadRequest if it was already gone.
func (r *RegistrationTokenRepo) Consume(ctx context.Context, email string) error {
	deleted, err := r.store.Delete(ctx, registrationKey(email))
	if err != nil {
		return err
	}
	if !deleted {
		return domain.BadRequest("Token already used or expired")
	}
	return nil
}
