package domain

import "time"

// OTPEntry is the cached state of an outstanding one-time passcode, keyed by email.
// Code is only populated between generation and delivery and is never serialized.
type OTPEntry struct {
	Code       string    `json:"-"`
	HashedCode string    `json:"hashed_code"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Remaining returns the whole seconds left before the entry expires, never negative.
func (e *OTPEntry) Remaining(now time.Time) int64 {
	d := e.ExpiresAt.Sub(now).Round(time.Second)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// DeliveryJob asks a worker to generate a code for Email and mail it.
type DeliveryJob struct {
	Email string `json:"email"`
}

// MailMessage is a rendered message handed to the mail transport.
type MailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}
