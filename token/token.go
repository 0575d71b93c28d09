// Package token mints and verifies the stateless bearer tokens issued
// at login. Two codecs are provided: a signed JWT codec (the default)
// and a sealed AEAD codec whose tokens are opaque to clients. Both are
// self-contained, so verification needs no server-side session state.
package token

import (
	"crypto/sha256"
	"errors"
)

// Claims is the identity a verified token asserts.
type Claims struct {
	UserID   int64
	Username string
}

// Codec mints and verifies bearer tokens. Implementations are
// stateless: everything needed to verify a token travels in the token
// itself, plus the server's key material.
type Codec interface {
	Mint(claims Claims) (string, error)
	Verify(token string) (Claims, error)
}

// ErrInvalid is the only verification failure. Malformed, tampered,
// unknown-key, and expired tokens are indistinguishable to callers, so
// responses cannot reveal why a token was rejected.
var ErrInvalid = errors.New("invalid token")

// minSecretLen is the shortest secret either codec accepts.
const minSecretLen = 32

// DeriveKey maps an arbitrary-length secret onto a key of the size the
// sealed codec's AEAD requires.
func DeriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}
