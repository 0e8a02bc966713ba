package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-otp-auth/internal/application/otp"
	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockOTPManager struct{ mock.Mock }

func (m *mockOTPManager) Issue(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockOTPManager) Verify(ctx context.Context, email, code string) (*otp.VerifyResult, error) {
	args := m.Called(ctx, email, code)
	if r, _ := args.Get(0).(*otp.VerifyResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(scopes []domain.Scope, payload any) (string, error) {
	args := m.Called(scopes, payload)
	return args.String(0), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishUserRegistered(ctx context.Context, ev domain.UserRegisteredEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func TestSendOTP_DelegatesToManager(t *testing.T) {
	mgr := new(mockOTPManager)
	mgr.On("Issue", mock.Anything, "a@x.com").Return(int64(120), nil)
	svc := NewService(mgr, new(mockUserStore), new(mockSigner), nil)

	secs, err := svc.SendOTP(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(120), secs)
}

func TestVerifyOTP_DelegatesToManager(t *testing.T) {
	mgr := new(mockOTPManager)
	mgr.On("Verify", mock.Anything, "a@x.com", "000000").Return(nil, domain.Unauthorized("Invalid OTP"))
	svc := NewService(mgr, new(mockUserStore), new(mockSigner), nil)

	_, err := svc.VerifyOTP(context.Background(), "a@x.com", "000000")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_CreatesUserAndPublishes(t *testing.T) {
	users := new(mockUserStore)
	signer := new(mockSigner)
	events := new(mockPublisher)
	users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.NotFound("User not found"))
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "a@x.com" && u.Name == "Ada" && u.UserID != ""
	})).Return(nil)
	signer.On("Sign", []domain.Scope{domain.ScopeAccess}, mock.AnythingOfType("*domain.User")).Return("access", nil)
	events.On("PublishUserRegistered", mock.Anything, mock.MatchedBy(func(ev domain.UserRegisteredEvent) bool {
		return ev.Type == domain.EventUserRegistered && ev.Email == "a@x.com" && ev.UserID != ""
	})).Return(nil)

	svc := NewService(new(mockOTPManager), users, signer, events)
	s := svc.(*service)
	s.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	token, err := svc.Register(context.Background(), "a@x.com", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "access", token)
	users.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestRegister_PublishFailureIsIgnored(t *testing.T) {
	users := new(mockUserStore)
	signer := new(mockSigner)
	events := new(mockPublisher)
	users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	signer.On("Sign", mock.Anything, mock.Anything).Return("access", nil)
	events.On("PublishUserRegistered", mock.Anything, mock.Anything).Return(errors.New("sns down"))

	token, err := NewService(new(mockOTPManager), users, signer, events).Register(context.Background(), "a@x.com", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "access", token)
}

func TestRegister_ExistingUserConflicts(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{UserID: "u1"}, nil)

	_, err := NewService(new(mockOTPManager), users, new(mockSigner), nil).Register(context.Background(), "a@x.com", "Ada")
	assert.ErrorIs(t, err, domain.ErrConflict)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_CreateFailure(t *testing.T) {
	users := new(mockUserStore)
	signer := new(mockSigner)
	users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(domain.Conflict("user already exists"))

	_, err := NewService(new(mockOTPManager), users, signer, nil).Register(context.Background(), "a@x.com", "Ada")
	assert.ErrorIs(t, err, domain.ErrConflict)
	signer.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
}

func TestMe(t *testing.T) {
	users := new(mockUserStore)
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Name: "Ada"}, nil)

	u, err := NewService(new(mockOTPManager), users, new(mockSigner), nil).Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
}
