package aurora

// State is the lifecycle state of a Widget.
type State int32

const (
	// StateUninitialized is the state of a widget that has not scheduled
	// initialization, or whose initialization was aborted because no
	// graphics were available. Such a widget is inert.
	StateUninitialized State = iota

	// StateInitializing means initialization is scheduled for the next frame.
	StateInitializing

	// StateRunning means the surface and program exist and frames are drawn.
	StateRunning

	// StateDestroyed is terminal.
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateInitializing:
		return "Initializing"
	case StateRunning:
		return "Running"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}
