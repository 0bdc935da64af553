package engine

// Status is the lifecycle state of the run loop.
// The ordering matters: the loop keeps running while status < StatusShuttingDown.
type Status int32

const (
	StatusUninitialised Status = iota
	StatusReady
	StatusRunning
	StatusQuitting
	StatusShuttingDown
)

// String returns a human-readable status name
func (s Status) String() string {
	switch s {
	case StatusUninitialised:
		return "uninitialised"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusQuitting:
		return "quitting"
	case StatusShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}
