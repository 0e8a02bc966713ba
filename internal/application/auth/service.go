package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-otp-auth/internal/application/otp"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/id"
)

type Service interface {
	SendOTP(ctx context.Context, email string) (expiresIn int64, err error)
	VerifyOTP(ctx context.Context, email, code string) (*otp.VerifyResult, error)
	Register(ctx context.Context, email, name string) (token string, err error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

type otpManager interface {
	Issue(ctx context.Context, email string) (int64, error)
	Verify(ctx context.Context, email, code string) (*otp.VerifyResult, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type tokenSigner interface {
	Sign(scopes []domain.Scope, payload any) (string, error)
}

type eventPublisher interface {
	PublishUserRegistered(ctx context.Context, ev domain.UserRegisteredEvent) error
}

type service struct {
	otps   otpManager
	users  userStore
	signer tokenSigner
	events eventPublisher
	now    func() time.Time
}

// NewService wires the auth flow. events may be nil when no topic is configured.
func NewService(otps otpManager, users userStore, signer tokenSigner, events eventPublisher) Service {
	return &service{
		otps:   otps,
		users:  users,
		signer: signer,
		events: events,
		now:    time.Now,
	}
}

func (s *service) SendOTP(ctx context.Context, email string) (int64, error) {
	return s.otps.Issue(ctx, email)
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) (*otp.VerifyResult, error) {
	return s.otps.Verify(ctx, email, code)
}

// Register creates the user for an email whose registration token was just
// redeemed and returns an access token for it.
func (s *service) Register(ctx context.Context, email, name string) (string, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return "", domain.Conflict("user already exists")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	now := s.now().UTC()
	u := &domain.User{
		UserID:    id.New(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	token, err := s.signer.Sign([]domain.Scope{domain.ScopeAccess}, u)
	if err != nil {
		return "", err
	}
	s.publishRegistered(ctx, u)
	return token, nil
}

func (s *service) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) publishRegistered(ctx context.Context, u *domain.User) {
	if s.events == nil {
		return
	}
	ev := domain.UserRegisteredEvent{
		Type:       domain.EventUserRegistered,
		UserID:     u.UserID,
		Email:      u.Email,
		OccurredAt: u.CreatedAt,
	}
	if err := s.events.PublishUserRegistered(ctx, ev); err != nil {
		slog.Warn("failed to publish user registered event", "user_id", u.UserID, "err", err)
	}
}
