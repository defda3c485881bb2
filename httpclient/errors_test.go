package httpclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	if ErrCodeRateLimit.String() != "rate_limit" {
		t.Errorf("got %q", ErrCodeRateLimit.String())
	}
	if ErrorCode(99).String() != "unknown" {
		t.Errorf("got %q", ErrorCode(99).String())
	}
}

func TestError_ErrorAndUnwrap(t *testing.T) {
	e := ClassifyStatusCode(503, []byte("down"))
	if !strings.Contains(e.Error(), "HTTP 503") {
		t.Errorf("unexpected message %q", e.Error())
	}

	cause := errors.New("dial tcp: refused")
	ce := NewConnectionError(cause)
	if !errors.Is(ce, cause) {
		t.Error("expected Unwrap to expose cause")
	}
	if !strings.HasPrefix(ce.Error(), "httpclient: connection:") {
		t.Errorf("unexpected message %q", ce.Error())
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		wantNil   bool
		code      ErrorCode
		retryable bool
	}{
		{200, true, 0, false},
		{204, true, 0, false},
		{401, false, ErrCodeAuth, false},
		{403, false, ErrCodeAuth, false},
		{404, false, ErrCodeNotFound, false},
		{429, false, ErrCodeRateLimit, true},
		{400, false, ErrCodeValidation, false},
		{422, false, ErrCodeValidation, false},
		{500, false, ErrCodeServer, true},
		{503, false, ErrCodeServer, true},
		{302, false, ErrCodeServer, false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			e := ClassifyStatusCode(tc.status, []byte("body"))
			if tc.wantNil {
				if e != nil {
					t.Fatalf("expected nil, got %v", e)
				}
				return
			}
			if e == nil {
				t.Fatal("expected error")
			}
			if e.Code != tc.code || e.Retryable != tc.retryable || e.StatusCode != tc.status {
				t.Errorf("got code=%s retryable=%v status=%d", e.Code, e.Retryable, e.StatusCode)
			}
			if string(e.Body) != "body" {
				t.Errorf("body not kept: %q", e.Body)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	timeout := NewTimeoutError(context.DeadlineExceeded)
	conn := NewConnectionError(errors.New("reset"))
	auth := ClassifyStatusCode(401, nil)
	wrapped := fmt.Errorf("send: %w", conn)

	if !IsTimeout(timeout) || IsTimeout(conn) {
		t.Error("IsTimeout mismatch")
	}
	if !IsConnection(wrapped) {
		t.Error("IsConnection should see through wrapping")
	}
	if !IsAuth(auth) {
		t.Error("IsAuth mismatch")
	}
	if !IsTransient(timeout) || !IsTransient(wrapped) || IsTransient(auth) {
		t.Error("IsTransient mismatch")
	}
	if StatusOf(auth) != 401 || StatusOf(conn) != 0 || StatusOf(errors.New("x")) != 0 {
		t.Error("StatusOf mismatch")
	}
	if !conn.IsRetryable() || auth.IsRetryable() {
		t.Error("IsRetryable mismatch")
	}
}
