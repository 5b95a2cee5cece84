package installer

// State identifies where a dependency sits in its install lifecycle.
type State string

const (
	StateUnchecked      State = "unchecked"
	StateAlreadyPresent State = "already_present"
	StateDownloading    State = "downloading"
	StateInstalling     State = "installing"
	StateVerifying      State = "verifying"
	StateInstalled      State = "installed"
	StateFailed         State = "failed"
)

// Terminal reports whether the state ends the machine.
func (s State) Terminal() bool {
	switch s {
	case StateAlreadyPresent, StateInstalled, StateFailed:
		return true
	default:
		return false
	}
}

// Result records how ensuring one dependency went.
type Result struct {
	Dependency string
	State      State
	// Path is the resolved command location for AlreadyPresent/Installed.
	Path string
	// Transitions lists every state the machine passed through, in order.
	Transitions []State
}

func (r *Result) transition(next State) {
	r.Transitions = append(r.Transitions, next)
	r.State = next
}
