package prober

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rathix/command-center/internal/settings"
)

func TestHTTP_ProbeSucceedsOnDefaultSuccessRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, err := NewHTTP(HTTPConfig{Name: "p1", URL: srv.URL}, settings.ProbeSettings{}, nil)
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}

	ok, msg := p.Probe(context.Background())
	if !ok {
		t.Fatalf("expected success, got message %q", msg)
	}
}

func TestHTTP_ProbeMessageFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, err := NewHTTP(HTTPConfig{Name: "p1", URL: srv.URL}, settings.ProbeSettings{}, nil)
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	_, raw := p.Probe(context.Background())
	if raw != "HTTP Status Code is 200" {
		t.Errorf("raw message = %q, want %q", raw, "HTTP Status Code is 200")
	}
	if got, want := p.Result().Message, "Success (http): HTTP Status Code is 200"; got != want {
		t.Errorf("result message = %q, want %q", got, want)
	}
}

func TestHTTP_ProbeTreats404AsSuccessUnderDefaultRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p, err := NewHTTP(HTTPConfig{Name: "p1", URL: srv.URL}, settings.ProbeSettings{}, nil)
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}

	ok, msg := p.Probe(context.Background())
	if !ok {
		t.Fatalf("expected 404 to be treated as success under the spec default [0,499] range, got message %q", msg)
	}
}

func TestHTTP_ProbeFailsOutsideSuccessRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	p, err := NewHTTP(HTTPConfig{Name: "p1", URL: srv.URL}, settings.ProbeSettings{}, nil)
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}

	ok, msg := p.Probe(context.Background())
	if ok {
		t.Fatalf("expected failure, got success message %q", msg)
	}
	if want := "HTTP Status Code is 500. It missed in [0-499]"; msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
}

func TestHTTP_ProbeFailsAboveDefaultUpperBound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewHTTP(HTTPConfig{Name: "p1", URL: srv.URL}, settings.ProbeSettings{}, nil)
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}

	ok, _ := p.Probe(context.Background())
	if ok {
		t.Fatal("expected 503 to fail under the default [0,499] success range")
	}
}

func TestHTTP_CustomSuccessCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	p, err := NewHTTP(HTTPConfig{
		Name:         "p1",
		URL:          srv.URL,
		SuccessCodes: []codeRange{{Low: 202, High: 202}},
	}, settings.ProbeSettings{}, nil)
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}

	ok, _ := p.Probe(context.Background())
	if !ok {
		t.Fatal("expected 202 to be treated as success with custom range")
	}
}

func TestParseCodeRange(t *testing.T) {
	r, err := ParseCodeRange("200-299")
	if err != nil {
		t.Fatal(err)
	}
	if !r.contains(250) || r.contains(199) || r.contains(300) {
		t.Errorf("range mismatch: %+v", r)
	}

	single, err := ParseCodeRange("204")
	if err != nil {
		t.Fatal(err)
	}
	if !single.contains(204) || single.contains(205) {
		t.Errorf("single-code range mismatch: %+v", single)
	}
}

func TestHTTP_NameAndChannels(t *testing.T) {
	p, err := NewHTTP(HTTPConfig{Name: "svc", URL: "http://example.invalid", Channels: []string{"c1", "c2"}}, settings.ProbeSettings{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "svc" {
		t.Errorf("name = %q", p.Name())
	}
	if len(p.Channels()) != 2 {
		t.Errorf("channels = %v", p.Channels())
	}
}
