package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/inkflow/resilience"
	"github.com/kbukum/inkflow/security"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestClient_Do_POST_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %q", ct)
		}
		if ua := r.Header.Get("User-Agent"); ua != "inkflow" {
			t.Errorf("expected default user agent, got %q", ua)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"model":"gpt-4o"`) {
			t.Errorf("unexpected body %s", body)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{})
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   srv.URL + "/v1/chat/completions",
		Body:   map[string]string{"model": "gpt-4o"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() || string(resp.Body) != `{"ok":true}` {
		t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Body)
	}
}

func TestClient_Do_BodyTypes(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		wantCT string
	}{
		{"bytes", []byte(`{"a":1}`), ""},
		{"string", "plain", "text/plain"},
		{"reader", strings.NewReader("stream"), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Content-Type"); got != tc.wantCT {
					t.Errorf("content type: got %q, want %q", got, tc.wantCT)
				}
			}))
			defer srv.Close()

			c := newTestClient(t, Config{})
			if _, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: srv.URL, Body: tc.body}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestClient_HeadersAndAuth(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		Headers: map[string]string{"X-Default": "d", "X-Override": "client"},
		Auth:    BearerAuth("client-token"),
	})

	_, err := c.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    srv.URL + "/",
		Headers: map[string]string{"X-Override": "request"},
		Auth:    APIKeyAuthHeader("req-key", "api-key"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Get("X-Default") != "d" || got.Get("X-Override") != "request" {
		t.Errorf("header merge wrong: %v", got)
	}
	if got.Get("Api-Key") != "req-key" {
		t.Errorf("request auth not applied: %v", got)
	}
	if got.Get("Authorization") != "" {
		t.Errorf("client auth should be overridden, got %q", got.Get("Authorization"))
	}
}

func TestClient_Do_ErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		code   ErrorCode
	}{
		{401, ErrCodeAuth},
		{429, ErrCodeRateLimit},
		{500, ErrCodeServer},
		{400, ErrCodeValidation},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			var hits int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			c := newTestClient(t, Config{Retry: resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}})
			_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: srv.URL + "/"})
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if e.Code != tc.code || e.StatusCode != tc.status {
				t.Errorf("got code=%s status=%d", e.Code, e.StatusCode)
			}
			if string(e.Body) != `{"error":"nope"}` {
				t.Errorf("body not carried: %q", e.Body)
			}
			if n := atomic.LoadInt32(&hits); n != 1 {
				t.Errorf("status errors must not be retried, got %d hits", n)
			}
		})
	}
}

func TestClient_Do_ErrorBodyCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{MaxErrorBody: 10})
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: srv.URL + "/"})
	var e *Error
	if !errors.As(err, &e) || len(e.Body) != 10 {
		t.Fatalf("expected capped body, got %v", err)
	}
}

func TestClient_Do_RetriesConnectionFailures(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := newTestClient(t, Config{Retry: resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}})
	_, err = c.Do(context.Background(), Request{Method: http.MethodPost, Path: "http://" + addr + "/"})
	if !IsConnection(err) {
		t.Fatalf("expected connection error after retries, got %v", err)
	}
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: srv.URL + "/"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if IsTransient(err) {
		t.Error("cancellation must not look like a transport failure")
	}
}

func TestClient_Do_DeadlineIsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, Config{Retry: resilience.RetryConfig{MaxAttempts: 1}})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: srv.URL + "/"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTimeout(err) && !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected timeout, got %v", err)
	}
}

func TestClient_DoStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: hello\n\n")
		flusher.Flush()
		fmt.Fprint(w, "data: world\n\n")
	}))
	defer srv.Close()

	c := newTestClient(t, Config{})
	stream, err := c.DoStream(context.Background(), Request{Method: http.MethodPost, Path: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	if !stream.IsEventStream() {
		t.Error("expected event stream content type")
	}
	body, err := io.ReadAll(stream.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != "data: hello\n\ndata: world\n\n" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestClient_DoStream_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{})
	_, err := c.DoStream(context.Background(), Request{Method: http.MethodPost, Path: srv.URL + "/"})
	if !IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	var e *Error
	errors.As(err, &e)
	if string(e.Body) != `{"error":"unauthorized"}` {
		t.Errorf("expected body on stream error, got %q", e.Body)
	}
}

func TestClient_DoStream_NotRetried(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := newTestClient(t, Config{Retry: resilience.RetryConfig{MaxAttempts: 5, InitialBackoff: time.Hour}})
	start := time.Now()
	_, err = c.DoStream(context.Background(), Request{Method: http.MethodPost, Path: "http://" + addr})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Error("stream request must not wait for retry backoff")
	}
}

func TestClient_InvalidRequest(t *testing.T) {
	c := newTestClient(t, Config{})
	_, err := c.Do(context.Background(), Request{Method: "BAD METHOD", Path: "http://example.com"})
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Timeout: -time.Second}); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: secure\n\n")
	}))
	defer srv.Close()

	plain := newTestClient(t, Config{})
	if _, err := plain.DoStream(context.Background(), Request{Method: http.MethodPost, Path: srv.URL + "/"}); err == nil {
		t.Fatal("expected certificate error without tls config")
	}

	c := newTestClient(t, Config{TLS: &security.TLSConfig{SkipVerify: true}})
	stream, err := c.DoStream(context.Background(), Request{Method: http.MethodPost, Path: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()
	body, _ := io.ReadAll(stream.Body)
	if string(body) != "data: secure\n\n" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestNew_InvalidTLS(t *testing.T) {
	if _, err := New(Config{TLS: &security.TLSConfig{CertFile: "client.pem"}}); err == nil {
		t.Fatal("expected tls validation error")
	}
}
