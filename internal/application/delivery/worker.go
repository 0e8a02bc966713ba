package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/otpcode"
)

type otpWriter interface {
	Save(ctx context.Context, email string, e *domain.OTPEntry, ttl time.Duration) error
}

type mailSender interface {
	Send(ctx context.Context, msg domain.MailMessage) error
}

// Worker generates, stores and mails one code per delivery job.
type Worker struct {
	otps   otpWriter
	mailer mailSender
	mail   composer
	ttl    time.Duration
	now    func() time.Time
}

// NewWorker builds a Worker. templates may be nil, in which case the built-in
// mail bodies are used.
func NewWorker(otps otpWriter, mailer mailSender, templates TemplateLoader, ttl time.Duration) *Worker {
	return &Worker{
		otps:   otps,
		mailer: mailer,
		mail:   composer{loader: templates},
		ttl:    ttl,
		now:    time.Now,
	}
}

// Deliver stores a fresh hashed code for job.Email, then mails the plaintext.
// A mail failure is returned but the stored code is kept.
func (w *Worker) Deliver(ctx context.Context, job domain.DeliveryJob) error {
	code, err := otpcode.Generate()
	if err != nil {
		return err
	}
	hashed, err := otpcode.Hash(code)
	if err != nil {
		return err
	}
	entry := &domain.OTPEntry{
		Code:       code,
		HashedCode: hashed,
		ExpiresAt:  w.now().Add(w.ttl),
	}
	if err := w.otps.Save(ctx, job.Email, entry, w.ttl); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}

	msg, err := w.mail.compose(ctx, job.Email, templateData{
		Code:    entry.Code,
		Email:   job.Email,
		Minutes: int(w.ttl / time.Minute),
	})
	if err != nil {
		return fmt.Errorf("compose otp mail: %w", err)
	}
	if err := w.mailer.Send(ctx, msg); err != nil {
		slog.Error("otp mail not sent", "email", job.Email, "err", err)
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}
