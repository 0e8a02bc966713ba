package handler

import (
	"net/http"

	"github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/transport/http/middleware"
)

// AuthHandler serves the passwordless login flow.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

type expiresData struct {
	ExpiresAt int64 `json:"expires_at"`
}

type tokenData struct {
	Token string `json:"token"`
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPRequest
	if !decode(w, r, &req) {
		return
	}
	secs, err := h.svc.SendOTP(r.Context(), req.Email)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{
		Message: "OTP has sent to your email",
		Data:    expiresData{ExpiresAt: secs},
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Message: "OTP successfully verified", Data: res})
}

// Register runs behind the register-scope policy, which has already redeemed
// the temp token and placed its email on the context.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.RegistrationEmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req domain.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	token, err := h.svc.Register(r.Context(), email, req.Name)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Message: "success", Data: tokenData{Token: token}})
}
