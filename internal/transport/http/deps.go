package http

import (
	"github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/transport/http/handler"
	appmiddleware "github.com/go-otp-auth/internal/transport/http/middleware"
)

// Deps holds everything the router needs. Queue may be nil, in which case
// the queue stats route reports 503.
type Deps struct {
	Auth          auth.Service
	Tokens        appmiddleware.TokenVerifier
	Registrations appmiddleware.RegistrationTokens
	Cache         handler.Pinger
	Queue         handler.QueueStats
}
