package delivery

import (
	"bytes"
	"context"
	"errors"
	htmltemplate "html/template"
	"log/slog"
	texttemplate "text/template"

	"github.com/go-otp-auth/internal/domain"
)

const (
	subject          = "OTP Code"
	textTemplateName = "otp.txt.tmpl"
	htmlTemplateName = "otp.html.tmpl"

	defaultText = "{{.Code}}"
	defaultHTML = "<b>{{.Code}}</b>"
)

// TemplateLoader fetches a named mail template. A missing template yields domain.ErrNotFound.
type TemplateLoader interface {
	Load(ctx context.Context, name string) (string, error)
}

type templateData struct {
	Code    string
	Email   string
	Minutes int
}

type composer struct {
	loader TemplateLoader
}

func (c composer) compose(ctx context.Context, to string, data templateData) (domain.MailMessage, error) {
	textSrc := c.source(ctx, textTemplateName, defaultText)
	htmlSrc := c.source(ctx, htmlTemplateName, defaultHTML)

	tt, err := texttemplate.New(textTemplateName).Parse(textSrc)
	if err != nil {
		return domain.MailMessage{}, err
	}
	ht, err := htmltemplate.New(htmlTemplateName).Parse(htmlSrc)
	if err != nil {
		return domain.MailMessage{}, err
	}

	var text, html bytes.Buffer
	if err := tt.Execute(&text, data); err != nil {
		return domain.MailMessage{}, err
	}
	if err := ht.Execute(&html, data); err != nil {
		return domain.MailMessage{}, err
	}
	return domain.MailMessage{To: to, Subject: subject, Text: text.String(), HTML: html.String()}, nil
}

// source falls back to the built-in template when no loader is configured or the load fails.
func (c composer) source(ctx context.Context, name, fallback string) string {
	if c.loader == nil {
		return fallback
	}
	src, err := c.loader.Load(ctx, name)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("mail template unavailable, using default", "template", name, "err", err)
		}
		return fallback
	}
	return src
}
