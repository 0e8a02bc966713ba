package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/otpcode"
)

type otpStore interface {
	Get(ctx context.Context, email string) (*domain.OTPEntry, error)
	Consume(ctx context.Context, email string) error
}

type registrationStore interface {
	Save(ctx context.Context, email string, ttl time.Duration) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type enqueuer interface {
	EnqueueOTPDelivery(ctx context.Context, email string) error
}

type tokenSigner interface {
	Sign(scopes []domain.Scope, payload any) (string, error)
}

// VerifyResult carries exactly one of TempToken (new identity) or Token (existing user).
type VerifyResult struct {
	TempToken string `json:"temp_token,omitempty"`
	Token     string `json:"token,omitempty"`
}

// Manager drives the OTP lifecycle: issuance with resend suppression and
// single-use verification.
type Manager struct {
	otps          otpStore
	registrations registrationStore
	users         userStore
	queue         enqueuer
	signer        tokenSigner
	ttl           time.Duration
	registerTTL   time.Duration
	now           func() time.Time
}

func NewManager(
	otps otpStore,
	registrations registrationStore,
	users userStore,
	queue enqueuer,
	signer tokenSigner,
	ttl, registerTTL time.Duration,
) *Manager {
	return &Manager{
		otps:          otps,
		registrations: registrations,
		users:         users,
		queue:         queue,
		signer:        signer,
		ttl:           ttl,
		registerTTL:   registerTTL,
		now:           time.Now,
	}
}

// Issue returns the seconds until the outstanding code for email expires.
// When there is none, a delivery is queued and the full lifetime is returned.
func (m *Manager) Issue(ctx context.Context, email string) (int64, error) {
	entry, err := m.otps.Get(ctx, email)
	switch {
	case err == nil:
		return entry.Remaining(m.now()), nil
	case !errors.Is(err, domain.ErrNotFound):
		return 0, fmt.Errorf("lookup otp: %w", err)
	}
	if err := m.queue.EnqueueOTPDelivery(ctx, email); err != nil {
		return 0, err
	}
	return int64(m.ttl / time.Second), nil
}

// Verify checks code against the outstanding entry and consumes it on match.
// A wrong code leaves the entry in place.
func (m *Manager) Verify(ctx context.Context, email, code string) (*VerifyResult, error) {
	entry, err := m.otps.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorized("OTP has expired or doesn't exist")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup otp: %w", err)
	}
	if !otpcode.Compare(code, entry.HashedCode) {
		return nil, domain.Unauthorized("Invalid OTP")
	}
	if err := m.otps.Consume(ctx, email); err != nil {
		return nil, err
	}

	u, err := m.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return m.issueRegistration(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	token, err := m.signer.Sign([]domain.Scope{domain.ScopeAccess}, u)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Token: token}, nil
}

func (m *Manager) issueRegistration(ctx context.Context, email string) (*VerifyResult, error) {
	token, err := m.signer.Sign([]domain.Scope{domain.ScopeRegister}, domain.RegistrationPayload{Email: email})
	if err != nil {
		return nil, err
	}
	if err := m.registrations.Save(ctx, email, m.registerTTL); err != nil {
		return nil, fmt.Errorf("save registration token: %w", err)
	}
	slog.Info("registration token issued", "email", email)
	return &VerifyResult{TempToken: token}, nil
}
