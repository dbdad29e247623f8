package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"dealsadmin/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var (
	// ErrExpired means the backend no longer accepts the session's token. A
	// dashboard session cannot log in again on its own.
	ErrExpired  = errors.New("session expired")
	ErrNotFound = errors.New("session not found")
)

// Session is one operator's login. It is passed explicitly to the API client
// and never stored in a package-level variable.
type Session struct {
	ID        contextx.SessionID `json:"id"`
	Token     string             `json:"token"`
	Email     string             `json:"email"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// New creates a session for a freshly issued token. The expiry is the
// token's exp claim when it is a JWT that has one, otherwise now + ttl.
func New(token, email string, ttl time.Duration, now time.Time) Session {
	expiresAt := now.Add(ttl)
	if exp, ok := tokenExpiry(token); ok {
		expiresAt = exp
	}

	return Session{
		ID:        contextx.SessionID(uuid.NewString()),
		Token:     token,
		Email:     email,
		ExpiresAt: expiresAt,
	}
}

func (s Session) BearerToken() string {
	return s.Token
}

// Authenticate is called by the transport after a 401. A user session has no
// credentials to log in again with, so it always reports ErrExpired.
func (s Session) Authenticate(context.Context) error {
	return ErrExpired
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// tokenExpiry reads exp without verifying the signature. Verification is the
// backend's job; the dashboard only needs to know when to stop trying.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}
