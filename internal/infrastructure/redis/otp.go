package redisinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-otp-auth/internal/domain"
)

const otpPrefix = "otp"

// OTPRepo keeps at most one outstanding code per email.
type OTPRepo struct {
	store *Store
}

func NewOTPRepo(store *Store) *OTPRepo {
	return &OTPRepo{store: store}
}

func otpKey(email string) string { return otpPrefix + ":" + email }

// Save overwrites the entry for email. Only the hash and expiry are stored.
func (r *OTPRepo) Save(ctx context.Context, email string, e *domain.OTPEntry, ttl time.Duration) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal otp entry: %w", err)
	}
	return r.store.Put(ctx, otpKey(email), b, ttl)
}

// Get returns the live entry for email, or domain.ErrNotFound.
func (r *OTPRepo) Get(ctx context.Context, email string) (*domain.OTPEntry, error) {
	b, err := r.store.Get(ctx, otpKey(email))
	if err != nil {
		return nil, err
	}
	var e domain.OTPEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("unmarshal otp entry: %w", err)
	}
	return &e, nil
}

// Consume deletes the entry for email. It fails with domain.ErrBadRequest when
// there was nothing to delete, i.e. another caller consumed it first.
func (r *OTPRepo) Consume(ctx context.Context, email string) error {
	deleted, err := r.store.Delete(ctx, otpKey(email))
	if err != nil {
		return err
	}
	if !deleted {
		return domain.BadRequest("Token already used or expired")
	}
	return nil
}
