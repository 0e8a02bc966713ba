package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	"github.com/wneessen/go-mail"
)

// Mailer sends emails.
type Mailer interface {
	Send(ctx context.Context, msg domain.MailMessage) error
}

type mailer struct {
	client *mail.Client
	from   string
	host   string
}

func NewMailer(cfg *config.Config) (Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTimeout(30 * time.Second),
	}
	if cfg.SMTPUsername != "" && cfg.SMTPPassword != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	if cfg.SMTPTLS {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12}),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	return &mailer{client: client, from: cfg.SMTPFrom, host: cfg.SMTPHost}, nil
}

func (m *mailer) Send(ctx context.Context, msg domain.MailMessage) error {
	out, err := buildMessage(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	slog.Info("email sent", "to", msg.To, "host", m.host)
	return nil
}

func buildMessage(from string, msg domain.MailMessage) (*mail.Msg, error) {
	if msg.To == "" {
		return nil, fmt.Errorf("email requires a recipient")
	}
	out := mail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("set to address: %w", err)
	}
	out.Subject(msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		out.SetBodyString(mail.TypeTextPlain, msg.Text)
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		out.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		out.SetBodyString(mail.TypeTextPlain, msg.Text)
	}
	return out, nil
}
