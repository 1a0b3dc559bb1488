package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures, distinguished for logging. Callers outside the
// authentication gate see both as a single unauthorized outcome.
var (
	// ErrTokenInvalid covers a bad signature, a malformed payload, an
	// unexpected signing method, or a missing/non-numeric subject.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenExpired is returned when the token's expiry time has passed.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the fixed payload of an access token: the subject user ID plus
// issuance and expiry times. Unknown claims are ignored on parse; a missing
// subject fails verification.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying signed,
// time-bound bearer tokens. Implementations hold the signing secret for the
// process lifetime; the secret is read-only after construction.
type TokenService interface {
	// Issue creates a signed token asserting the given user's identity.
	// A non-positive ttl selects the configured default.
	Issue(userID int64, ttl time.Duration) (string, error)

	// Verify checks the signature and expiry of a token string and returns
	// the subject user ID. It does not consult the user store; a user deleted
	// after issuance is caught by the authentication gate.
	Verify(tokenString string) (int64, error)

	// AccessTokenTTL returns the configured default token lifetime.
	AccessTokenTTL() time.Duration
}
