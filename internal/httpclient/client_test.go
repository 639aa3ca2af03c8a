package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/grantkit/oauth2-client-go/internal/oautherr"
)

func TestNewDefaults(t *testing.T) {
	client := New(nil)

	if client.httpClient.Timeout != 30*time.Second {
		t.Errorf("Expected 30s default timeout, got %v", client.httpClient.Timeout)
	}
}

func TestNewWithHTTPClient(t *testing.T) {
	hc := &http.Client{Timeout: 5 * time.Second}
	client := NewWithHTTPClient(hc)

	if client.httpClient != hc {
		t.Error("Caller-supplied http.Client should be used as-is")
	}

	if NewWithHTTPClient(nil) == nil {
		t.Error("Nil http.Client should fall back to defaults")
	}
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Test"); got != "yes" {
			t.Errorf("Expected X-Test header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := New(nil)
	resp, err := client.Get(context.Background(), server.URL, map[string]string{"X-Test": "yes"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer func() { _ = resp.SafeClose() }()

	var body struct {
		OK bool `json:"ok"`
	}
	if err := resp.JSON(&body); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !body.OK {
		t.Error("Expected ok true")
	}
}

func TestPostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("Expected form content type, got %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" {
			t.Errorf("Expected grant_type in form, got %q", r.PostForm.Get("grant_type"))
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(nil)
	resp, err := client.PostForm(context.Background(), server.URL,
		url.Values{"grant_type": {"authorization_code"}}, nil)
	if err != nil {
		t.Fatalf("PostForm failed: %v", err)
	}
	defer func() { _ = resp.SafeClose() }()

	if resp.String() != "ok" {
		t.Errorf("Expected body ok, got %q", resp.String())
	}
}

func TestDoStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("nope"))
	}))
	defer server.Close()

	client := New(nil)
	resp, err := client.Get(context.Background(), server.URL, nil)
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if !oautherr.IsKind(err, oautherr.Status) {
		t.Errorf("Expected status error kind, got %v", err)
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Error("Response should still be returned alongside the status error")
	}
}

func TestDoTransportError(t *testing.T) {
	client := New(nil)

	_, err := client.Get(context.Background(), "http://127.0.0.1:1", nil)
	if err == nil {
		t.Fatal("Expected error for unreachable host")
	}
	if !oautherr.IsKind(err, oautherr.Transport) {
		t.Errorf("Expected transport error kind, got %v", err)
	}
}

func TestDoDefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "custom-agent" {
			t.Errorf("Expected default header applied, got %q", got)
		}
		if got := r.Header.Get("X-Set"); got != "request" {
			t.Errorf("Request headers should win over defaults, got %q", got)
		}
	}))
	defer server.Close()

	client := New(&Config{
		Timeout: 5 * time.Second,
		DefaultHeaders: map[string]string{
			"User-Agent": "custom-agent",
			"X-Set":      "default",
		},
	})

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("X-Set", "request")

	resp, err := client.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	_ = resp.SafeClose()
}

func TestDoRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	client := New(nil)
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.DoRaw(context.Background(), req)
	if err != nil {
		t.Fatalf("DoRaw should not classify statuses: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("Expected status 418 passed through, got %d", resp.StatusCode)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := New(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Get(ctx, server.URL, nil); err == nil {
		t.Error("Expected error when context deadline passes")
	}
}
