// Package token issues and verifies the signed session tokens that carry an
// applicant's identity. Tokens are stateless HS256 JWTs bounded by expiry
// only; there is no server-side revocation.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired means the token was well-formed and correctly signed but is
	// past its expiry.
	ErrExpired = errors.New("token: expired")
	// ErrMalformed covers every other verification failure: bad structure,
	// wrong signature, unexpected signing method.
	ErrMalformed = errors.New("token: malformed")
)

// Claims binds the registered claim set to the applicant identity claim.
type Claims struct {
	jwt.RegisteredClaims
	ApplicantID string `json:"applicant_id"`
}

// Service signs and verifies session tokens. The key is injected once at
// construction and read-only afterwards, so Service is safe for concurrent
// use without locking.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token: signing key is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints a session token asserting the given applicant identity.
func (s *Service) Issue(applicantID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		ApplicantID: applicantID,
	})
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string. It distinguishes expiry from
// every other failure so callers can log precisely, though the HTTP layer
// surfaces both as the same 401.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformed
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !parsed.Valid || claims.ApplicantID == "" {
		return nil, ErrMalformed
	}

	return claims, nil
}

// TTL reports the configured validity duration, used to size the cookie max-age.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
