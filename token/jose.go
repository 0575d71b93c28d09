package token

import (
	"errors"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// JOSECodec mints HS256-signed JWTs. The username travels as the
// subject claim, the user id as a private claim, and validity as the
// registered iat/exp pair.
type JOSECodec struct {
	secret []byte
	ttl    time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

type joseClaims struct {
	UserID int64 `json:"uid"`
}

// NewJOSECodec creates a codec signing with secret for tokens valid for
// ttl.
func NewJOSECodec(secret []byte, ttl time.Duration) (*JOSECodec, error) {
	if len(secret) < minSecretLen {
		return nil, errors.New("token: secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	return &JOSECodec{secret: secret, ttl: ttl}, nil
}

func (c *JOSECodec) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *JOSECodec) Mint(claims Claims) (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: c.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", err
	}

	now := c.clock()
	std := jwt.Claims{
		Subject:  claims.Username,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(c.ttl)),
	}
	return jwt.Signed(signer).Claims(std).Claims(joseClaims{UserID: claims.UserID}).Serialize()
}

func (c *JOSECodec) Verify(raw string) (Claims, error) {
	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return Claims{}, ErrInvalid
	}

	var std jwt.Claims
	var priv joseClaims
	if err := tok.Claims(c.secret, &std, &priv); err != nil {
		return Claims{}, ErrInvalid
	}
	if err := std.Validate(jwt.Expected{Time: c.clock()}); err != nil {
		return Claims{}, ErrInvalid
	}
	return Claims{UserID: priv.UserID, Username: std.Subject}, nil
}
