package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/izaqyos/toyMCP/logger"
	"github.com/izaqyos/toyMCP/token"
)

// FailureMessage is the only message a failed login returns. It does
// not distinguish unknown usernames from wrong passwords.
const FailureMessage = "Incorrect username or password"

// ErrInvalidCredentials reports a failed login. One sentinel covers
// every credential failure mode.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is a login account. PasswordHash is a bcrypt hash.
type User struct {
	ID           int64
	Username     string
	PasswordHash []byte
}

// UserSource resolves usernames to accounts.
type UserSource interface {
	FindByUsername(ctx context.Context, username string) (User, bool, error)
}

// StaticUsers serves a fixed account list, seeded from configuration
// at startup.
type StaticUsers struct {
	byName map[string]User
}

func NewStaticUsers(users ...User) *StaticUsers {
	s := &StaticUsers{byName: make(map[string]User, len(users))}
	for _, u := range users {
		s.byName[u.Username] = u
	}
	return s
}

func (s *StaticUsers) FindByUsername(ctx context.Context, username string) (User, bool, error) {
	u, ok := s.byName[username]
	return u, ok, nil
}

// HashPassword bcrypt-hashes a plaintext password for seeding users.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// dummyHash is a real bcrypt hash compared when the username is
// unknown, so a lookup miss costs the same as a password mismatch.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Verifier checks credentials against a user source and mints a token
// for successful logins.
type Verifier struct {
	users UserSource
	codec token.Codec
	log   logger.Logger
}

func NewVerifier(users UserSource, codec token.Codec, log logger.Logger) *Verifier {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Verifier{users: users, codec: codec, log: log}
}

// Authenticate checks a username/password pair. On success it returns
// the identity and a freshly minted token; every credential failure
// returns ErrInvalidCredentials and nothing else.
func (v *Verifier) Authenticate(ctx context.Context, username, password string) (Identity, string, error) {
	user, found, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		return Identity{}, "", err
	}

	hash := user.PasswordHash
	if !found {
		hash = dummyHash
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !found {
		return Identity{}, "", ErrInvalidCredentials
	}

	minted, err := v.codec.Mint(token.Claims{UserID: user.ID, Username: user.Username})
	if err != nil {
		v.log.WithErr(err).Error("failed to mint token")
		return Identity{}, "", err
	}
	return Identity{ID: user.ID, Username: user.Username}, minted, nil
}
