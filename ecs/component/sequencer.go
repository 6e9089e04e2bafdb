package component

// RunPhase is where a sequencer run currently stands.
type RunPhase int

const (
	RunIdle RunPhase = iota
	RunWaitingTimer
	RunWaitingPredicate
	RunExecuting
)

func (p RunPhase) String() string {
	switch p {
	case RunWaitingTimer:
		return "waiting_timer"
	case RunWaitingPredicate:
		return "waiting_predicate"
	case RunExecuting:
		return "executing"
	default:
		return "idle"
	}
}

// WaitKind names the predicate a run is suspended on.
type WaitKind int

const (
	WaitNone WaitKind = iota
	WaitArrival
	WaitScript
)

// Sequencer is the single reaction run an agent may have in flight.
type Sequencer struct {
	Reaction *Reaction
	RunID    uint64
	Index    int
	Phase    RunPhase

	Timer float64
	Wait  WaitKind

	// AwaitArrival turns the end of the current timer into an arrival wait.
	AwaitArrival bool
	Script       string

	Arrived  bool
	External bool
	Elapsed  float64

	// MaxJitter bounds the random start delay; negative disables it.
	MaxJitter float64
}

func (s *Sequencer) Active() bool {
	return s.Reaction != nil && s.Phase != RunIdle
}

var SequencerComponent = NewComponent[Sequencer]()
