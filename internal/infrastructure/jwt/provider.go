package jwtinfra

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/id"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields.
type Claims struct {
	Scope []domain.Scope  `json:"scope"`
	Data  json.RawMessage `json:"data"`
	jwt.RegisteredClaims
}

// HasScope reports whether s was granted to the token.
func (c *Claims) HasScope(s domain.Scope) bool {
	return slices.Contains(c.Scope, s)
}

// DecodeData unmarshals the embedded payload into v.
func (c *Claims) DecodeData(v any) error {
	if len(c.Data) == 0 {
		return errors.New("token carries no data")
	}
	return json.Unmarshal(c.Data, v)
}

// Provider signs and verifies HS256 JWTs with a server-held secret.
type Provider struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Provider{
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.JWTExpiry,
		issuer: cfg.JWTIssuer,
		now:    time.Now,
	}, nil
}

// Sign mints a token granting scopes and embedding payload.
func (p *Provider) Sign(scopes []domain.Scope, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal token payload: %w", err)
	}
	now := p.now()
	claims := Claims{
		Scope: scopes,
		Data:  data,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.NewTokenID(),
			Issuer:    p.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify checks signature, expiry, and issuer and returns the claims.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
