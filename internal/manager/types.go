package manager

// State represents the lifecycle state of the served model.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateError    State = "error"
)

// Terminal reports whether no further transition is possible in this process.
func (s State) Terminal() bool { return s == StateReady || s == StateError }
