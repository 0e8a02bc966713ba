package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-otp-auth/internal/domain"
	jwtinfra "github.com/go-otp-auth/internal/infrastructure/jwt"
)

type contextKey string

const (
	claimsKey            contextKey = "claims"
	userKey              contextKey = "user"
	registrationEmailKey contextKey = "registration_email"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// RegistrationTokens is the one-time marker store behind register-scoped tokens.
type RegistrationTokens interface {
	Exists(ctx context.Context, email string) (bool, error)
	Consume(ctx context.Context, email string) error
}

// ScopePolicy declares the scope a route requires. Registrations is only
// consulted for domain.ScopeRegister.
type ScopePolicy struct {
	Scope         domain.Scope
	Verifier      TokenVerifier
	Registrations RegistrationTokens
}

// RequireScope rejects requests whose bearer token is missing or invalid (401)
// or lacks p.Scope (403). Access tokens put the embedded user on the context.
// Register tokens are redeemed: the registration marker must exist and is
// consumed before the handler runs, so a token completes at most one request.
func RequireScope(p ScopePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			claims, err := p.Verifier.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !claims.HasScope(p.Scope) {
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			switch p.Scope {
			case domain.ScopeAccess:
				var u domain.User
				if err := claims.DecodeData(&u); err != nil || u.UserID == "" {
					writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				ctx = context.WithValue(ctx, userKey, &u)
			case domain.ScopeRegister:
				email, status := redeem(r.Context(), p.Registrations, claims)
				if status != 0 {
					writeJSONError(w, status, http.StatusText(status))
					return
				}
				ctx = context.WithValue(ctx, registrationEmailKey, email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// redeem consumes the registration marker for the token's email. A non-zero
// status means the request must be rejected with it.
func redeem(ctx context.Context, regs RegistrationTokens, claims *jwtinfra.Claims) (string, int) {
	var payload domain.RegistrationPayload
	if err := claims.DecodeData(&payload); err != nil || payload.Email == "" {
		return "", http.StatusUnauthorized
	}
	ok, err := regs.Exists(ctx, payload.Email)
	if err != nil {
		slog.Error("registration token lookup failed", "email", payload.Email, "err", err)
		return "", http.StatusInternalServerError
	}
	if !ok {
		return "", http.StatusUnauthorized
	}
	if err := regs.Consume(ctx, payload.Email); err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			// lost the race to a concurrent redemption
			return "", http.StatusUnauthorized
		}
		slog.Error("registration token consume failed", "email", payload.Email, "err", err)
		return "", http.StatusInternalServerError
	}
	return payload.Email, 0
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.Claims)
	return c, ok
}

// UserFromContext returns the user embedded in an access token.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}

// RegistrationEmailFromContext returns the email redeemed by a register token.
func RegistrationEmailFromContext(ctx context.Context) (string, bool) {
	e, ok := ctx.Value(registrationEmailKey).(string)
	return e, ok
}
