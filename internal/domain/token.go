package domain

// Scope is a capability tag embedded in a bearer token.
type Scope string

const (
	ScopeRegister Scope = "register"
	ScopeAccess   Scope = "access"
)

// RegistrationPayload is the data carried by a register-scoped token.
type RegistrationPayload struct {
	Email string `json:"email"`
}
