package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestFetchExtractsVisibleText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "forensics-test" {
			t.Errorf("expected custom user agent got %q", ua)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Bank</title><style>body{color:red}</style></head>
<body><h1>Urgent action required</h1><script>var x = "click immediately";</script><p>Verify your account</p></body></html>`)
	}))
	defer srv.Close()

	client := NewClient(Config{UserAgent: "forensics-test"})
	page, err := client.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Status != http.StatusOK || page.Redirects != 0 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Text != "Bank Urgent action required Verify your account" {
		t.Fatalf("unexpected text %q", page.Text)
	}
}

func TestFetchCountsRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hop, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/hop/"))
		if hop < 3 {
			http.Redirect(w, r, fmt.Sprintf("/hop/%d", hop+1), http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "landed")
	}))
	defer srv.Close()

	page, err := NewClient(Config{}).Fetch(context.Background(), srv.URL+"/hop/0")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Redirects != 3 {
		t.Fatalf("expected 3 redirects got %d", page.Redirects)
	}
	if !strings.HasSuffix(page.FinalURL, "/hop/3") {
		t.Fatalf("unexpected final url %s", page.FinalURL)
	}
	if page.Text != "landed" {
		t.Fatalf("expected raw body for plain text got %q", page.Text)
	}
}

func TestFetchTreatsErrorStatusAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	page, err := NewClient(Config{}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected 404 to be a successful fetch, got %v", err)
	}
	if page.Status != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", page.Status)
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(Config{Timeout: 50 * time.Millisecond}).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestFetchRedirectLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	if _, err := NewClient(Config{MaxRedirects: 2}).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected redirect loop to fail")
	}
}

func TestFetchLimitsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, strings.Repeat("a", 100))
	}))
	defer srv.Close()

	page, err := NewClient(Config{MaxBodyBytes: 10}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(page.Text) != 10 {
		t.Fatalf("expected body truncated to 10 bytes got %d", len(page.Text))
	}
}

func TestFetchEmptyURL(t *testing.T) {
	_, err := NewClient(Config{}).Fetch(context.Background(), "  ")
	if !errors.Is(err, ErrEmptyURL) {
		t.Fatalf("expected ErrEmptyURL got %v", err)
	}
}
