package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/izaqyos/toyMCP/endpoint"
)

func headersRequest(t *testing.T, p *APIHeaders, fail bool) *httptest.ResponseRecorder {
	t.Helper()
	fn := func(w http.ResponseWriter, r *http.Request, _ gateParams) (endpoint.Renderer, error) {
		if fail {
			return nil, endpoint.Error(http.StatusUnauthorized, "no token", nil)
		}
		return &endpoint.NoContentRenderer{}, nil
	}
	h := endpoint.Handler(fn, p)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rpc", nil))
	return rec
}

func TestAPIHeadersDefaults(t *testing.T) {
	rec := headersRequest(t, NewAPIHeaders(), false)

	want := map[string]string{
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Referrer-Policy":           "no-referrer",
		"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
		"Cache-Control":             "no-store",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestAPIHeadersZeroMaxAgeDisablesHSTS(t *testing.T) {
	rec := headersRequest(t, &APIHeaders{}, false)

	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Strict-Transport-Security = %q, want unset", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

func TestAPIHeadersCustomCacheControl(t *testing.T) {
	rec := headersRequest(t, &APIHeaders{CacheControl: "private, max-age=5"}, false)

	if got := rec.Header().Get("Cache-Control"); got != "private, max-age=5" {
		t.Errorf("Cache-Control = %q, want private, max-age=5", got)
	}
}

// Headers are set before the endpoint runs, so error responses carry
// them too.
func TestAPIHeadersPresentOnErrors(t *testing.T) {
	rec := headersRequest(t, NewAPIHeaders(), true)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}
