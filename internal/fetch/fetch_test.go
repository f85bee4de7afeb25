package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchStatuses(t *testing.T) {
	var flaky atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
		case "/flaky":
			if flaky.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		case "/moved":
			http.Redirect(w, r, "/ok", http.StatusFound)
		case "/ua":
			if r.UserAgent() != "test-agent" {
				w.WriteHeader(http.StatusForbidden)
			}
		}
	}))
	defer srv.Close()

	c := New(Options{Timeout: 2 * time.Second, Retries: 1, UserAgent: "test-agent"})
	ctx := context.Background()

	for path, want := range map[string]int{
		"/ok":    http.StatusOK,
		"/gone":  http.StatusNotFound,
		"/flaky": http.StatusOK,
		"/moved": http.StatusOK,
		"/ua":    http.StatusOK,
	} {
		got, err := c.Fetch(ctx, srv.URL+path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if got != want {
			t.Errorf("%s: status %d, want %d", path, got, want)
		}
	}
}

func TestFetchFinalServerErrorIsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	got, err := New(Options{Retries: -1}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", got)
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(Options{Retries: -1}).Fetch(context.Background(), url); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestFetchHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Options{}).Fetch(ctx, "http://127.0.0.1:1"); err == nil {
		t.Fatalf("expected context error")
	}
}
