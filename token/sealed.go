package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/chacha20poly1305"
)

// maxTokenLen bounds the amount of attacker-controlled data we will
// decode/allocate for a presented token.
const maxTokenLen = 8192

// tokenContext is the additional authenticated data sealed into every
// token. It binds the ciphertext to this use: a blob sealed under the
// same key for another purpose will not open as an access token.
const tokenContext = "toymcp:access-token"

// SealedCodec mints opaque tokens by sealing CBOR claims with
// XChaCha20-Poly1305.
//
// Format: [keyID] "." [sealed_b64]
// where sealed = nonce || AEAD.Seal(nil, nonce, plaintext, aad).
// Key rotation: keys contains all accepted keys; keyID selects the
// current key for sealing, so tokens minted under retired keys stay
// verifiable until they expire.
//
// The nonce is randomly generated per token.
type SealedCodec struct {
	keyID string
	keys  map[string][]byte
	ttl   time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

type sealedPayload struct {
	UserID   int64  `cbor:"uid"`
	Username string `cbor:"sub"`
	// Expiry is unix seconds.
	Expiry int64 `cbor:"exp"`
}

// NewSealedCodec creates a codec sealing under keys[keyID] for tokens
// valid for ttl. Every key must be usable by the AEAD.
func NewSealedCodec(keyID string, keys map[string][]byte, ttl time.Duration) (*SealedCodec, error) {
	if keys == nil {
		return nil, errors.New("token: keys must not be nil")
	}
	if _, ok := keys[keyID]; !ok {
		return nil, errors.New("token: keyID not found in keys")
	}
	if ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	for id, k := range keys {
		if _, err := chacha20poly1305.NewX(k); err != nil {
			return nil, fmt.Errorf("token: invalid key %s: %w", id, err)
		}
	}
	return &SealedCodec{keyID: keyID, keys: keys, ttl: ttl}, nil
}

func (c *SealedCodec) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *SealedCodec) Mint(claims Claims) (string, error) {
	payload := sealedPayload{
		UserID:   claims.UserID,
		Username: claims.Username,
		Expiry:   c.clock().Add(c.ttl).Unix(),
	}
	plain, err := cbor.Marshal(payload)
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(c.keys[c.keyID])
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, plain, []byte(tokenContext))
	return c.keyID + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *SealedCodec) Verify(raw string) (Claims, error) {
	if len(raw) == 0 || len(raw) > maxTokenLen {
		return Claims{}, ErrInvalid
	}
	keyID, encB64, ok := strings.Cut(raw, ".")
	if !ok || keyID == "" || encB64 == "" {
		return Claims{}, ErrInvalid
	}
	key, ok := c.keys[keyID]
	if !ok {
		return Claims{}, ErrInvalid
	}

	encrypted, err := base64.RawURLEncoding.DecodeString(encB64)
	if err != nil {
		return Claims{}, ErrInvalid
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return Claims{}, ErrInvalid
	}
	if len(encrypted) < aead.NonceSize()+aead.Overhead() {
		return Claims{}, ErrInvalid
	}

	nonce, ciphertext := encrypted[:aead.NonceSize()], encrypted[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(tokenContext))
	if err != nil {
		return Claims{}, ErrInvalid
	}

	var payload sealedPayload
	if err := cbor.Unmarshal(plain, &payload); err != nil {
		return Claims{}, ErrInvalid
	}
	if !c.clock().Before(time.Unix(payload.Expiry, 0)) {
		return Claims{}, ErrInvalid
	}
	return Claims{UserID: payload.UserID, Username: payload.Username}, nil
}
