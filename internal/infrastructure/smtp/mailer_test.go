package smtp

import (
	"bytes"
	"testing"

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_TextAndHTML(t *testing.T) {
	msg, err := buildMessage("noreply@example.com", domain.MailMessage{
		To:      "a@x.com",
		Subject: "OTP Code",
		Text:    "123456",
		HTML:    "<b>123456</b>",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Subject: OTP Code")
	assert.Contains(t, raw, "<a@x.com>")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
}

func TestBuildMessage_RequiresRecipient(t *testing.T) {
	_, err := buildMessage("noreply@example.com", domain.MailMessage{Subject: "x", Text: "y"})
	assert.Error(t, err)
}

func TestBuildMessage_InvalidFrom(t *testing.T) {
	_, err := buildMessage("not an address", domain.MailMessage{To: "a@x.com", Text: "y"})
	assert.Error(t, err)
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 1025, SMTPFrom: "noreply@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}
