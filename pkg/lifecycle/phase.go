package lifecycle

// Phase is a state of the request state machine.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseRejected
	PhaseBusy
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseRejected:
		return "rejected"
	case PhaseBusy:
		return "busy"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}
