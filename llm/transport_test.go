package llm

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/inkflow/errors"
	"github.com/kbukum/inkflow/httpclient"
	"github.com/kbukum/inkflow/logger"
	"github.com/kbukum/inkflow/resilience"
)

func newTestTransport(t *testing.T) *HTTPTransport {
	t.Helper()
	c, err := httpclient.New(httpclient.Config{Retry: resilience.RetryConfig{MaxAttempts: 1}})
	if err != nil {
		t.Fatal(err)
	}
	return NewHTTPTransport(c)
}

func TestHTTPTransport_StatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		code    errors.ErrorCode
		message string
	}{
		{http.StatusUnauthorized, `{"error":"bad key"}`, errors.ErrCodeUnauthorized, "Invalid API Key"},
		{http.StatusForbidden, "", errors.ErrCodeUnauthorized, "Invalid API Key"},
		{http.StatusTooManyRequests, "", errors.ErrCodeRateLimited, "Too many requests, please try again later"},
		{http.StatusInternalServerError, "", errors.ErrCodeServerError, "Server error, please try again later"},
		{http.StatusServiceUnavailable, "", errors.ErrCodeServiceUnavailable, "Service temporarily unavailable"},
		{http.StatusTeapot, "short and stout", errors.ErrCodeRequestFailed, "Request failed: HTTP 418 short and stout"},
		{http.StatusBadGateway, "", errors.ErrCodeRequestFailed, "Request failed: HTTP 502 Bad Gateway"},
	}
	for _, stream := range []bool{true, false} {
		for _, tc := range tests {
			name := http.StatusText(tc.status)
			if stream {
				name += "/stream"
			}
			t.Run(name, func(t *testing.T) {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tc.status)
					_, _ = io.WriteString(w, tc.body)
				}))
				defer srv.Close()

				_, err := newTestTransport(t).Send(context.Background(), Request{
					Method: http.MethodPost, URL: srv.URL, Body: []byte(`{}`), Stream: stream,
				})
				appErr, ok := errors.AsAppError(err)
				if !ok {
					t.Fatalf("expected AppError, got %v", err)
				}
				if appErr.Code != tc.code || appErr.Message != tc.message {
					t.Errorf("got %s %q, want %s %q", appErr.Code, appErr.Message, tc.code, tc.message)
				}
				if appErr.Kind != errors.KindTransport {
					t.Errorf("expected transport kind, got %s", appErr.Kind)
				}
			})
		}
	}
}

func TestHTTPTransport_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	for _, stream := range []bool{true, false} {
		_, err := newTestTransport(t).Send(context.Background(), Request{Method: http.MethodPost, URL: url, Stream: stream})
		if !errors.HasCode(err, errors.ErrCodeConnectionFailed) {
			t.Errorf("stream=%v: expected CONNECTION_FAILED, got %v", stream, err)
		}
	}
}

func TestHTTPTransport_NonStreamingBodyReplay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"Red"}}]}`)
	}))
	defer srv.Close()

	body, err := newTestTransport(t).Send(context.Background(), Request{Method: http.MethodPost, URL: srv.URL, Body: []byte(`{}`)})
	if err != nil {
		t.Fatal(err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != `{"choices":[{"message":{"content":"Red"}}]}` {
		t.Errorf("unexpected body %q", data)
	}
}

func TestHTTPTransport_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestTransport(t).Send(ctx, Request{Method: http.MethodPost, URL: srv.URL, Stream: true})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHTTPTransport_NotesMislabelledStream(t *testing.T) {
	tests := []struct {
		name        string
		family      Family
		contentType string
		wantNote    bool
	}{
		{"sse family plain text", FamilyOpenAI, "text/plain", true},
		{"sse family event stream", FamilyAnthropic, "text/event-stream; charset=utf-8", false},
		{"ndjson family", FamilyOllama, "application/x-ndjson", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger.Register(logger.ComponentLLM, logger.New(logger.Config{Level: "debug", Format: logger.FormatJSON}, &buf))
			t.Cleanup(func() { logger.Unregister(logger.ComponentLLM) })

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				_, _ = io.WriteString(w, "data: [DONE]\n\n")
			}))
			defer srv.Close()

			body, err := newTestTransport(t).Send(context.Background(), Request{
				Method: http.MethodPost, URL: srv.URL, Stream: true, Provider: "p", Family: tc.family,
			})
			if err != nil {
				t.Fatal(err)
			}
			_ = body.Close()

			got := bytes.Contains(buf.Bytes(), []byte("not text/event-stream"))
			if got != tc.wantNote {
				t.Errorf("note logged = %v, want %v: %s", got, tc.wantNote, buf.String())
			}
		})
	}
}
