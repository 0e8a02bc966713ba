package delivery

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/otpcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOTPs struct {
	entries map[string]*domain.OTPEntry
	ttls    map[string]time.Duration
	err     error
}

func newMemOTPs() *memOTPs {
	return &memOTPs{entries: map[string]*domain.OTPEntry{}, ttls: map[string]time.Duration{}}
}

func (m *memOTPs) Save(_ context.Context, email string, e *domain.OTPEntry, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.entries[email] = e
	m.ttls[email] = ttl
	return nil
}

type captureMailer struct {
	sent []domain.MailMessage
	err  error
}

func (c *captureMailer) Send(_ context.Context, msg domain.MailMessage) error {
	c.sent = append(c.sent, msg)
	return c.err
}

type mapTemplates map[string]string

func (m mapTemplates) Load(_ context.Context, name string) (string, error) {
	if src, ok := m[name]; ok {
		return src, nil
	}
	return "", fmt.Errorf("template %s: %w", name, domain.ErrNotFound)
}

type brokenTemplates struct{}

func (brokenTemplates) Load(context.Context, string) (string, error) {
	return "", errors.New("access denied")
}

func TestDeliver_StoresHashAndMailsCode(t *testing.T) {
	otps := newMemOTPs()
	m := &captureMailer{}
	w := NewWorker(otps, m, nil, 2*time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	require.NoError(t, w.Deliver(context.Background(), domain.DeliveryJob{Email: "a@x.com"}))

	require.Len(t, m.sent, 1)
	msg := m.sent[0]
	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "OTP Code", msg.Subject)
	assert.Len(t, msg.Text, otpcode.Length)
	assert.Equal(t, "<b>"+msg.Text+"</b>", msg.HTML)

	entry := otps.entries["a@x.com"]
	require.NotNil(t, entry)
	assert.Equal(t, now.Add(2*time.Minute), entry.ExpiresAt)
	assert.Equal(t, 2*time.Minute, otps.ttls["a@x.com"])
	assert.NotEqual(t, msg.Text, entry.HashedCode)
	assert.True(t, otpcode.Compare(msg.Text, entry.HashedCode))
	assert.False(t, otpcode.Compare("not-it", entry.HashedCode))
}

func TestDeliver_MailFailureKeepsEntry(t *testing.T) {
	otps := newMemOTPs()
	m := &captureMailer{err: errors.New("smtp down")}
	w := NewWorker(otps, m, nil, time.Minute)

	err := w.Deliver(context.Background(), domain.DeliveryJob{Email: "a@x.com"})
	require.Error(t, err)
	assert.Contains(t, otps.entries, "a@x.com")
}

func TestDeliver_StoreFailureSkipsMail(t *testing.T) {
	otps := newMemOTPs()
	otps.err = errors.New("redis down")
	m := &captureMailer{}
	w := NewWorker(otps, m, nil, time.Minute)

	require.Error(t, w.Deliver(context.Background(), domain.DeliveryJob{Email: "a@x.com"}))
	assert.Empty(t, m.sent)
}

func TestDeliver_RetryOverwritesCode(t *testing.T) {
	otps := newMemOTPs()
	m := &captureMailer{}
	w := NewWorker(otps, m, nil, time.Minute)

	require.NoError(t, w.Deliver(context.Background(), domain.DeliveryJob{Email: "a@x.com"}))
	require.NoError(t, w.Deliver(context.Background(), domain.DeliveryJob{Email: "a@x.com"}))

	require.Len(t, m.sent, 2)
	assert.True(t, otpcode.Compare(m.sent[1].Text, otps.entries["a@x.com"].HashedCode))
}

func TestDeliver_UsesStoredTemplates(t *testing.T) {
	tpl := mapTemplates{
		textTemplateName: "Your code is {{.Code}}, valid {{.Minutes}} minutes.",
		htmlTemplateName: "<p>{{.Email}}: <strong>{{.Code}}</strong></p>",
	}
	m := &captureMailer{}
	w := NewWorker(newMemOTPs(), m, tpl, 5*time.Minute)

	require.NoError(t, w.Deliver(context.Background(), domain.DeliveryJob{Email: "a@x.com"}))
	msg := m.sent[0]
	assert.Regexp(t, `^Your code is \d{6}, valid 5 minutes\.$`, msg.Text)
	assert.Regexp(t, `^<p>a@x.com: <strong>\d{6}</strong></p>$`, msg.HTML)
}

func TestDeliver_TemplateFallback(t *testing.T) {
	for name, loader := range map[string]TemplateLoader{
		"missing": mapTemplates{},
		"broken":  brokenTemplates{},
	} {
		t.Run(name, func(t *testing.T) {
			m := &captureMailer{}
			w := NewWorker(newMemOTPs(), m, loader, time.Minute)
			require.NoError(t, w.Deliver(context.Background(), domain.DeliveryJob{Email: "a@x.com"}))
			assert.Regexp(t, `^\d{6}$`, m.sent[0].Text)
			assert.Regexp(t, `^<b>\d{6}</b>$`, m.sent[0].HTML)
		})
	}
}

func TestDeliver_BadTemplate(t *testing.T) {
	m := &captureMailer{}
	w := NewWorker(newMemOTPs(), m, mapTemplates{textTemplateName: "{{.Code"}, time.Minute)
	require.Error(t, w.Deliver(context.Background(), domain.DeliveryJob{Email: "a@x.com"}))
	assert.Empty(t, m.sent)
}
