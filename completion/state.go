package completion

// State is the lifecycle position of a Session.
type State int

const (
	Idle State = iota
	Building
	Streaming
	Completed
	Cancelled
	Failed
)

var stateNames = map[State]string{
	Idle:      "idle",
	Building:  "building",
	Streaming: "streaming",
	Completed: "completed",
	Cancelled: "cancelled",
	Failed:    "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transition can follow s.
func (s State) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Failed
}

// Cancellation reasons reported in Result.Reason.
const (
	ReasonUser           = "user"
	ReasonSuperseded     = "superseded"
	ReasonSurfaceChanged = "surface_changed"
	ReasonContext        = "context"
)
