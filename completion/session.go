package completion

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/inkflow/editor"
)

var (
	errUserCancelled = stderrors.New("completion: cancelled by user")
	errSuperseded    = stderrors.New("completion: superseded by a newer session")
)

// Result is the final outcome of a Session.
type Result struct {
	SessionID string
	State     State
	// Reason says why a Cancelled session stopped.
	Reason string
	// Err is the failure of a Failed session.
	Err error
	// Message is the notice shown for a Failed session.
	Message   string
	Text      string
	Inserted  int
	Fragments int
	Duration  time.Duration
}

// Session is one generation from prompt submission to a terminal state.
// It owns its cancellation token; no other session ever touches it.
type Session struct {
	id      string
	target  editor.SurfaceID
	prompt  string
	started time.Time

	cancel     context.CancelCauseFunc
	cancelOnce sync.Once
	cancels    int

	// applier-owned; only the session goroutine touches these while running
	anchor    int
	inserted  int
	fragments int
	primed    bool
	text      strings.Builder
	streaming bool

	mu     sync.Mutex
	state  State
	result Result
	done   chan struct{}
}

func newSession(target editor.SurfaceID, prompt string, anchor int) *Session {
	return &Session{
		id:      uuid.NewString(),
		target:  target,
		prompt:  prompt,
		anchor:  anchor,
		started: time.Now(),
		state:   Idle,
		done:    make(chan struct{}),
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Target returns the surface the session writes into.
func (s *Session) Target() editor.SurfaceID { return s.target }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the session ends or ctx is done. A Failed session
// returns its error alongside the result; Completed and Cancelled sessions
// return a nil error.
func (s *Session) Wait(ctx context.Context) (Result, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		return Result{SessionID: s.id, State: s.State()}, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result.Err
}

// cancelWith triggers the token once. Later calls are no-ops.
func (s *Session) cancelWith(cause error) bool {
	fired := false
	s.cancelOnce.Do(func() {
		s.mu.Lock()
		s.cancels++
		s.mu.Unlock()
		s.cancel(cause)
		fired = true
	})
	return fired
}

// setState records the transition and returns the previous state. It
// refuses to leave a terminal state.
func (s *Session) setState(to State) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.state
	if from.IsTerminal() {
		return from, false
	}
	s.state = to
	return from, true
}

func (s *Session) finish(r Result) {
	s.mu.Lock()
	s.result = r
	s.mu.Unlock()
	close(s.done)
}

func cancelReason(ctx context.Context) string {
	switch cause := context.Cause(ctx); {
	case stderrors.Is(cause, errSuperseded):
		return ReasonSuperseded
	case stderrors.Is(cause, errUserCancelled):
		return ReasonUser
	default:
		return ReasonContext
	}
}
