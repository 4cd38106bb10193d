// Package token issues opaque secrets whose SHA-256 digest is what gets
// stored or compared.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// refreshBytes is the entropy of a refresh token before encoding.
const refreshBytes = 48

// NewRefresh returns a URL-safe refresh token and the digest to persist.
func NewRefresh() (plain, digest string, err error) {
	b := make([]byte, refreshBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(b)
	return plain, Digest(plain), nil
}

// Digest is the hex SHA-256 of plain.
func Digest(plain string) string {
	h := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(h[:])
}

// Matches compares plain against a stored digest in constant time.
func Matches(plain, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(Digest(plain)), []byte(digest)) == 1
}
