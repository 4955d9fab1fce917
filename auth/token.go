package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)

// TokenService issues and verifies signed, time-bounded bearer tokens.
// A token is valid iff its signature verifies under the service's secret
// and it has not expired; no server-side session record exists.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token carrying subject=username, issued-at=now and
// expiry=now+ttl.
func (ts *TokenService) Issue(username string) (string, error) {
	now := ts.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
	})
	return token.SignedString(ts.secret)
}

// Verify parses and validates tokenString and returns the embedded
// username. Failures are classified as ErrMalformedToken,
// ErrInvalidSignature or ErrTokenExpired so callers can log the cause,
// though all three must surface as a generic unauthenticated response.
func (ts *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return ts.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(ts.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrInvalidSignature
		}
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidSignature
	}

	return claims.Subject, nil
}
