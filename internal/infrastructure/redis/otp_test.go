package redisinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPRepo_SaveGetConsume(t *testing.T) {
	s, mr := newTestStore(t)
	repo := NewOTPRepo(s)
	ctx := context.Background()

	exp := time.Now().Add(2 * time.Minute).UTC().Truncate(time.Second)
	require.NoError(t, repo.Save(ctx, "a@x.com", &domain.OTPEntry{
		Code:       "123456",
		HashedCode: "digest",
		ExpiresAt:  exp,
	}, 2*time.Minute))

	raw, err := mr.Get("test:otp:a@x.com")
	require.NoError(t, err)
	assert.NotContains(t, raw, "123456", "plaintext code must not be cached")

	got, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "digest", got.HashedCode)
	assert.True(t, exp.Equal(got.ExpiresAt))
	assert.Empty(t, got.Code)

	require.NoError(t, repo.Consume(ctx, "a@x.com"))
	err = repo.Consume(ctx, "a@x.com")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))

	_, err = repo.Get(ctx, "a@x.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRegistrationTokenRepo_Lifecycle(t *testing.T) {
	s, mr := newTestStore(t)
	repo := NewRegistrationTokenRepo(s)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Save(ctx, "a@x.com", 15*time.Minute))
	v, err := mr.Get("test:temp_token:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "valid", v)

	ok, err = repo.Exists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Consume(ctx, "a@x.com"))
	assert.True(t, errors.Is(repo.Consume(ctx, "a@x.com"), domain.ErrBadRequest))
}

func TestRegistrationTokenRepo_Expires(t *testing.T) {
	s, mr := newTestStore(t)
	repo := NewRegistrationTokenRepo(s)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a@x.com", time.Second))
	mr.FastForward(2 * time.Second)

	ok, err := repo.Exists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
