package completion

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/kbukum/inkflow/errors"
)

func TestFailureMessage(t *testing.T) {
	refused := stderrors.New("dial tcp: connection refused")
	tests := []struct {
		name      string
		err       error
		streaming bool
		want      string
	}{
		{"unauthorized", errors.FromHTTPStatus(http.StatusUnauthorized, nil), true, "Invalid API Key"},
		{"forbidden", errors.FromHTTPStatus(http.StatusForbidden, nil), false, "Invalid API Key"},
		{"rate limited", errors.FromHTTPStatus(http.StatusTooManyRequests, nil), true, "Too many requests, please try again later"},
		{"server error", errors.FromHTTPStatus(http.StatusInternalServerError, nil), true, "Server error, please try again later"},
		{"unavailable", errors.FromHTTPStatus(http.StatusServiceUnavailable, nil), true, "Service temporarily unavailable"},
		{"other status", errors.FromHTTPStatus(http.StatusNotFound, []byte("no such model")), true, "Request failed: HTTP 404 no such model"},
		{"network while streaming", errors.ConnectionFailed(refused), true, "Network error. Consider disabling Stream Mode in settings.\nError: dial tcp: connection refused"},
		{"network without streaming", errors.ConnectionFailed(refused), false, "Network error\nError: dial tcp: connection refused"},
		{"missing key", errors.MissingCredential("openai"), true, "API key not set"},
		{"unknown provider", errors.UnknownProvider("x"), true, "AI provider not found"},
		{"unreadable", errors.UnreadableResponse(refused), true, "Failed to read the AI response"},
		{"internal", errors.Internal(stderrors.New("boom")), true, "Unknown error\nError: boom"},
		{"plain error", stderrors.New("something odd"), true, "something odd"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FailureMessage(tc.err, tc.streaming); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	if Streaming.String() != "streaming" || State(42).String() != "unknown" {
		t.Error("unexpected state names")
	}
	for _, s := range []State{Completed, Cancelled, Failed} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	if Building.IsTerminal() || Idle.IsTerminal() {
		t.Error("non-terminal states reported terminal")
	}
}
