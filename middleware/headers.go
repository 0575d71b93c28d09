package middleware

import (
	"net/http"
	"strconv"

	"github.com/izaqyos/toyMCP/endpoint"
)

// APIHeaders sets response headers suited to a JSON API: responses are
// never HTML, never framed, and never cached. Fields left at their
// zero value take the documented defaults from NewAPIHeaders.
type APIHeaders struct {
	// HSTSMaxAge is the Strict-Transport-Security max-age in seconds.
	// Zero disables the header, for plain-HTTP deployments behind a
	// TLS-terminating proxy that sets its own.
	HSTSMaxAge int

	// CacheControl is the Cache-Control header value. Empty means
	// "no-store"; responses can carry tokens and item data that must
	// not land in shared caches.
	CacheControl string
}

// NewAPIHeaders returns an APIHeaders with one year of HSTS.
func NewAPIHeaders() *APIHeaders {
	return &APIHeaders{HSTSMaxAge: 31536000}
}

// Process implements endpoint.Processor.
func (p *APIHeaders) Process(w http.ResponseWriter, r *http.Request, next func(w http.ResponseWriter, r *http.Request) error) error {
	h := w.Header()
	if p.HSTSMaxAge > 0 {
		h.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(p.HSTSMaxAge)+"; includeSubDomains")
	}
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

	cc := p.CacheControl
	if cc == "" {
		cc = "no-store"
	}
	h.Set("Cache-Control", cc)

	return next(w, r)
}

var _ endpoint.Processor = (*APIHeaders)(nil)
