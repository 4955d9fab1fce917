// Package auth holds the authentication core: password hashing, stateless
// bearer-token issuance and verification, and the request gate that binds a
// verified identity to the request context.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const hashCost = 12

// HashPassword produces a salted bcrypt digest of the plaintext.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", errors.New("error hashing password")
	}
	return string(hash), nil
}

// HashMatchesPassword reports whether the digest was derived from the
// plaintext. The comparison is constant-time inside bcrypt; a malformed
// digest simply fails the match.
func HashMatchesPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
