package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, p.timeout)
	}
}

func TestNew_WithTimeout(t *testing.T) {
	p, err := New(WithTimeout(5 * time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", p.timeout)
	}
}

func TestNew_InvalidTimeout(t *testing.T) {
	_, err := New(WithTimeout(-1 * time.Second))
	if err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestDo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	p, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := p.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if !resp.Success {
		t.Error("expected Success for 200")
	}
	if resp.Body != "ok" {
		t.Errorf("expected body 'ok', got %q", resp.Body)
	}
	// Header lookups are case-insensitive through http.Header.
	if got := resp.Headers.Get("x-frame-options"); got != "DENY" {
		t.Errorf("expected x-frame-options DENY, got %q", got)
	}
}

func TestDo_DefaultMethodIsGet(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))
	defer srv.Close()

	p, _ := New()
	if _, err := p.Do(context.Background(), Request{URL: srv.URL}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if method != http.MethodGet {
		t.Errorf("expected GET, got %q", method)
	}
}

func TestDo_MethodHeadersBody(t *testing.T) {
	var (
		method string
		header string
		body   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		header = r.Header.Get("Authorization")
		body, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	p, _ := New()
	_, err := p.Do(context.Background(), Request{
		URL:     srv.URL,
		Method:  http.MethodPost,
		Headers: map[string]string{"Authorization": "Bearer token"},
		Body:    `{"ping":true}`,
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if method != http.MethodPost {
		t.Errorf("expected POST, got %q", method)
	}
	if header != "Bearer token" {
		t.Errorf("expected Authorization header, got %q", header)
	}
	if string(body) != `{"ping":true}` {
		t.Errorf("unexpected body %q", body)
	}
}

func TestDo_SuccessRange(t *testing.T) {
	tests := []struct {
		status  int
		success bool
	}{
		{200, true},
		{204, true},
		{301, true},
		{399, true},
		{400, false},
		{404, false},
		{500, false},
	}

	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		p, _ := New()
		resp, err := p.Get(context.Background(), srv.URL)
		srv.Close()
		if err != nil {
			t.Fatalf("status %d: Do failed: %v", tc.status, err)
		}
		if resp.Success != tc.success {
			t.Errorf("status %d: expected Success=%v, got %v", tc.status, tc.success, resp.Success)
		}
	}
}

func TestDo_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p, _ := New()
	_, err := p.Do(context.Background(), Request{URL: srv.URL, Timeout: 20 * time.Millisecond})
	if err == nil {
		t.Fatal("expected error for slow server")
	}

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TimeoutError, got %T: %v", err, err)
	}
	if te.Timeout != 20*time.Millisecond {
		t.Errorf("expected timeout 20ms in error, got %v", te.Timeout)
	}
}

func TestDo_NetworkError(t *testing.T) {
	// Grab a URL from a server that is already closed so the
	// connection is refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p, _ := New()
	_, err := p.Get(context.Background(), url)
	if err == nil {
		t.Fatal("expected error for refused connection")
	}

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
	if ne.Unwrap() == nil {
		t.Error("expected NetworkError to wrap the underlying error")
	}
}

func TestDo_InvalidURL(t *testing.T) {
	p, _ := New()
	_, err := p.Get(context.Background(), "http://[::1]:namedport")
	if err == nil {
		t.Fatal("expected error for malformed URL")
	}
	var te *TimeoutError
	var ne *NetworkError
	if errors.As(err, &te) || errors.As(err, &ne) {
		t.Errorf("malformed URL should not map to probe failure types, got %T", err)
	}
}
