package widget

// State is the lifecycle position of a widget instance.
type State int

const (
	StateMounted State = iota
	StateScriptEnsured
	StatePolling
	StateInitialized
	StateExhausted
	StateFailed // entry point was called and returned an error
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateMounted:
		return "mounted"
	case StateScriptEnsured:
		return "script_ensured"
	case StatePolling:
		return "polling"
	case StateInitialized:
		return "initialized"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition happens without a remount.
func (s State) Terminal() bool {
	return s >= StateInitialized
}

// Status is a snapshot of one instance.
type Status struct {
	ID       string
	Config   Config
	State    State
	Attempts int
	Err      error
}

// Initialized drives the UI affordance: full opacity once true, dimmed otherwise.
func (s Status) Initialized() bool {
	return s.State == StateInitialized
}
