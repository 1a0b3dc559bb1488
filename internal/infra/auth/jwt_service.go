// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"taskboard/config"
	"taskboard/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using
// HS256 JWTs. The signing secret and default TTL are fixed at construction
// and shared read-only across all issuance and verification calls.
type jwtService struct {
	secret    []byte
	accessTTL time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := 30 * time.Minute
	if cfg.Auth != nil && cfg.Auth.AccessTokenTTL > 0 {
		ttl = cfg.Auth.AccessTokenTTL
	}

	return &jwtService{
		secret:    []byte(cfg.SecretKey.Access),
		accessTTL: ttl,
	}, nil
}

// Issue creates a signed access token for the given user. A non-positive ttl
// selects the configured default.
func (s *jwtService) Issue(userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}

	now := time.Now()
	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks the signature and expiry of a token string and returns the
// subject user ID. Expiry is reported as service.ErrTokenExpired; every other
// failure collapses into service.ErrTokenInvalid so callers cannot probe
// which sub-check rejected the token.
func (s *jwtService) Verify(tokenString string) (int64, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Accept only the HMAC family the token was issued with. A token
		// re-signed with "none" or an RSA public key must not pass.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, service.ErrTokenExpired
		}

		return 0, service.ErrTokenInvalid
	}
	if !token.Valid {
		return 0, service.ErrTokenInvalid
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return 0, service.ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, service.ErrTokenInvalid
	}

	return userID, nil
}

// AccessTokenTTL returns the configured default token lifetime.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}
