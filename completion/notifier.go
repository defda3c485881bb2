package completion

// ProgressMessage is shown while a session is building or streaming.
const ProgressMessage = "AI is thinking..."

// Notifier shows user-visible session notices. Each session gets one
// Progress followed by exactly one of Success, Failure or Dismiss.
type Notifier interface {
	Progress(sessionID, message string)
	Success(sessionID string)
	Failure(sessionID, message string)
	// Dismiss removes the progress notice without reporting anything.
	Dismiss(sessionID string)
}

// Listener observes state transitions. It is called from the session's
// goroutine and must not block.
type Listener interface {
	OnTransition(sessionID string, from, to State)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(sessionID string, from, to State)

// OnTransition implements Listener.
func (f ListenerFunc) OnTransition(sessionID string, from, to State) { f(sessionID, from, to) }

type nopNotifier struct{}

func (nopNotifier) Progress(string, string) {}
func (nopNotifier) Success(string)          {}
func (nopNotifier) Failure(string, string)  {}
func (nopNotifier) Dismiss(string)          {}
