package handler

import (
	"errors"
	"net/http"

	"github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/transport/http/middleware"
)

// UserHandler serves the authenticated user's own record.
type UserHandler struct {
	svc auth.Service
}

func NewUserHandler(svc auth.Service) *UserHandler { return &UserHandler{svc: svc} }

// Me returns the stored record of the token's user, falling back to the copy
// embedded in the token if the store no longer has it.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	tokenUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	u, err := h.svc.Me(r.Context(), tokenUser.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		u, err = tokenUser, nil
	}
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Message: "success", Data: u})
}
