// Package middleware provides endpoint.Processor implementations shared
// by the server's routes: bearer-token gating, request logging, and
// security headers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/izaqyos/toyMCP/auth"
	"github.com/izaqyos/toyMCP/endpoint"
	"github.com/izaqyos/toyMCP/logger"
	"github.com/izaqyos/toyMCP/token"
)

// TokenGate admits only requests bearing a valid access token in the
// Authorization header. It runs before the endpoint body is read, so an
// unauthorized caller is rejected with 401 before any of its payload is
// parsed. On success the caller's identity is attached to the request
// context for downstream handlers.
type TokenGate struct {
	codec token.Codec
	log   logger.Logger
}

// NewTokenGate returns a gate that verifies tokens with codec.
func NewTokenGate(codec token.Codec, log logger.Logger) *TokenGate {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &TokenGate{codec: codec, log: log}
}

// Process implements endpoint.Processor.
func (g *TokenGate) Process(w http.ResponseWriter, r *http.Request, next func(w http.ResponseWriter, r *http.Request) error) error {
	raw, ok := bearerToken(r)
	if !ok {
		w.Header().Set("WWW-Authenticate", `Bearer`)
		return endpoint.Error(http.StatusUnauthorized, "Authorization header with Bearer token required", nil)
	}

	claims, err := g.codec.Verify(raw)
	if err != nil {
		g.log.WithFields(map[string]interface{}{
			"request_id": RequestIDFromContext(r.Context()),
		}).WithErr(err).Debug("rejected bearer token")
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		return endpoint.Error(http.StatusUnauthorized, "Invalid or expired token", nil)
	}

	identity := auth.Identity{ID: claims.UserID, Username: claims.Username}
	g.log.WithFields(map[string]interface{}{
		"request_id": RequestIDFromContext(r.Context()),
		"user":       identity.Username,
	}).Debug("authenticated request")

	return next(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme match is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, rest, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}

var _ endpoint.Processor = (*TokenGate)(nil)
