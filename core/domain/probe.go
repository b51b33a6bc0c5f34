package domain

// ProbeStatus is the result of a reachability check
type ProbeStatus int

const (
	ProbeOpen ProbeStatus = iota
	ProbeClosed
	ProbeTimedOut
)

func (s ProbeStatus) String() string {
	switch s {
	case ProbeOpen:
		return "open"
	case ProbeClosed:
		return "closed"
	case ProbeTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// ProbeResult carries the status and, when not open, the dial error
type ProbeResult struct {
	Status ProbeStatus
	Err    error
}
