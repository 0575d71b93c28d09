package endpoint

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONRenderer(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	j := &JSONRenderer{Status: 201, Value: map[string]string{"k": "<v>"}}
	if err := j.Render(w, r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w.Code != 201 {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	// HTML escaping is disabled so payloads round-trip unmangled.
	if got := strings.TrimSpace(w.Body.String()); got != `{"k":"<v>"}` {
		t.Errorf("body = %q", got)
	}
}

func TestJSONRenderer_DefaultStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	j := &JSONRenderer{Value: []int{1, 2}}
	if err := j.Render(w, r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w.Code != 200 {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestStringRenderer(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	s := &StringRenderer{Status: 404, Body: "not here"}
	if err := s.Render(w, r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Body.String() != "not here" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestStringRenderer_CustomContentType(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	s := &StringRenderer{Status: 200, Body: "<p>hi</p>", ContentType: "text/html"}
	if err := s.Render(w, r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestNoContentRenderer(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	n := &NoContentRenderer{}
	if err := n.Render(w, r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w.Code != 204 {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestNoContentRenderer_ExplicitStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	n := &NoContentRenderer{Status: 202}
	if err := n.Render(w, r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w.Code != 202 {
		t.Errorf("status = %d, want 202", w.Code)
	}
}
