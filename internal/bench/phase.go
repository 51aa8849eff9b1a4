package bench

// Phase identifies the stage a run is in. Warmup strictly precedes
// measurement; the two never overlap.
type Phase int

const (
	// PhaseWarmup is the sequential priming stage.
	PhaseWarmup Phase = iota

	// PhaseMeasure is the concurrent measurement stage.
	PhaseMeasure
)

func (p Phase) String() string {
	switch p {
	case PhaseWarmup:
		return "warmup"
	case PhaseMeasure:
		return "measure"
	default:
		return "unknown"
	}
}

// PhaseListener receives phase transitions from a Runner.
//
// Callbacks are invoked synchronously from the runner goroutine and must
// return quickly.
type PhaseListener interface {
	// PhaseStarted is called before the first request of a phase.
	PhaseStarted(p Phase)

	// PhaseEnded is called after the last request of a phase, regardless
	// of how many requests succeeded.
	PhaseEnded(p Phase)
}

// NopListener is a PhaseListener that ignores all events.
type NopListener struct{}

func (NopListener) PhaseStarted(Phase) {}
func (NopListener) PhaseEnded(Phase)   {}

var _ PhaseListener = NopListener{}
