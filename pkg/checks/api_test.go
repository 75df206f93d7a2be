package checks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthCheck_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d := testDeps(t, srv.URL)
	chk := findCheck(t, API(d), "Health Check Endpoint")
	if err := chk.Fn(context.Background()); err != nil {
		t.Errorf("expected pass for 200, got %v", err)
	}
}

func TestHealthCheck_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := testDeps(t, srv.URL)
	chk := findCheck(t, API(d), "Health Check Endpoint")
	err := chk.Fn(context.Background())
	if err == nil {
		t.Fatal("expected failure for 500")
	}
	if !strings.Contains(err.Error(), "Health check failed: 500") {
		t.Errorf("expected 'Health check failed: 500' in error, got %q", err)
	}
}

func TestHealthCheck_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	d := testDeps(t, url)
	chk := findCheck(t, API(d), "Health Check Endpoint")
	if err := chk.Fn(context.Background()); err == nil {
		t.Error("expected failure when the server is unreachable")
	}
}

func TestSessionCheck_AcceptedStatuses(t *testing.T) {
	tests := []struct {
		status int
		pass   bool
	}{
		{http.StatusOK, true},
		{http.StatusUnauthorized, true},
		{http.StatusNotFound, false},
		{http.StatusInternalServerError, false},
	}

	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		d := testDeps(t, srv.URL)
		chk := findCheck(t, API(d), "Auth Session Endpoint")
		err := chk.Fn(context.Background())
		srv.Close()

		if tc.pass && err != nil {
			t.Errorf("status %d: expected pass, got %v", tc.status, err)
		}
		if !tc.pass && err == nil {
			t.Errorf("status %d: expected failure", tc.status)
		}
	}
}

func TestRootCheck(t *testing.T) {
	tests := []struct {
		status int
		pass   bool
	}{
		{http.StatusOK, true},
		{http.StatusNotFound, true}, // reachable, just not a page
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
	}

	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		d := testDeps(t, srv.URL)
		chk := findCheck(t, API(d), "Site Root Reachable")
		err := chk.Fn(context.Background())
		srv.Close()

		if tc.pass && err != nil {
			t.Errorf("status %d: expected pass, got %v", tc.status, err)
		}
		if !tc.pass && err == nil {
			t.Errorf("status %d: expected failure", tc.status)
		}
	}
}
