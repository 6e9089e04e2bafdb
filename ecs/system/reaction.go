package system

import (
	"math/rand/v2"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/logging"
)

const (
	defaultMaxJitter = 0.15
	settleDelay      = 0.1
	maxStepsPerTick  = 64
)

// ReactionSystem drives reaction runs. Each tick it resumes every suspended
// run once and then executes steps until one suspends again.
type ReactionSystem struct {
	scripts map[string]*predicate
}

func NewReactionSystem() *ReactionSystem {
	return &ReactionSystem{scripts: map[string]*predicate{}}
}

func (s *ReactionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach(w, component.SequencerComponent.Kind(), func(e ecs.Entity, seq *component.Sequencer) {
		if !seq.Active() {
			return
		}
		seq.Elapsed += dt
		if !s.resume(w, e, seq, dt) {
			return
		}
		s.advance(w, e, seq)
	})
}

// InvokeReaction starts r on e, cancelling any run in progress. It refuses
// dead, disabled or engaged agents and agents still cooling down from an
// external reaction. External runs come from collaborators rather than the
// agent's own threat tiers.
func InvokeReaction(w *ecs.World, e ecs.Entity, r *component.Reaction, external bool) bool {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok || agent.Dead || !agent.DetectorEnabled {
		return false
	}
	if isEngaged(w, e) {
		return false
	}
	if th, ok := ecs.Get(w, e, component.ThreatComponent.Kind()); ok && th.SinceExternalReaction < th.Config.ExternalCooldown {
		return false
	}
	if r == nil {
		logging.Warn().
			Add(logging.Agent(uint64(e))).
			Add(logging.Bool("external", external)).
			Msg("reaction: no reaction bound")
		return false
	}

	seq, ok := ecs.Get(w, e, component.SequencerComponent.Kind())
	if !ok {
		seq = &component.Sequencer{}
		if err := ecs.Add(w, e, component.SequencerComponent.Kind(), seq); err != nil {
			logging.Error().Add(logging.Agent(uint64(e))).Add(logging.ErrorField(err)).Msg("reaction: attach sequencer")
			return false
		}
	}

	cancelRun(w, e, seq)
	agent.WanderMode = agent.StartingWanderMode

	seq.Reaction = r
	seq.RunID++
	seq.Index = 0
	seq.Phase = component.RunWaitingTimer
	seq.Timer = startJitter(agentRand(agent), seq.MaxJitter)
	seq.Wait = component.WaitNone
	seq.AwaitArrival = false
	seq.Script = ""
	seq.Arrived = false
	seq.External = external
	seq.Elapsed = 0

	logging.Debug().
		Add(logging.Agent(uint64(e))).
		Add(logging.Reaction(r.Name)).
		Add(logging.RunID(seq.RunID)).
		Add(logging.Bool("external", external)).
		Msg("reaction: started")
	w.Publish(EventReactionStarted, e, ReactionNotice{Reaction: r.Name, RunID: seq.RunID})
	return true
}

// CancelReaction stops the run in progress on e along with any movement loop
// or rotation it started.
func CancelReaction(w *ecs.World, e ecs.Entity) {
	if seq, ok := ecs.Get(w, e, component.SequencerComponent.Kind()); ok {
		cancelRun(w, e, seq)
	}
}

// CancelAll tears down everything a reaction may have left behind and
// restores the agent's wander mode. With stopNav the current path is
// dropped too.
func CancelAll(w *ecs.World, e ecs.Entity, stopNav bool) {
	CancelReaction(w, e)
	stopMovementLoop(w, e)
	stopRotation(w, e)

	if agent, ok := ecs.Get(w, e, component.AgentComponent.Kind()); ok {
		agent.WanderMode = agent.StartingWanderMode
	}
	if nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind()); ok {
		nav.Stopped = false
		if stopNav {
			nav.ResetPath()
		}
	}
}

func cancelRun(w *ecs.World, e ecs.Entity, seq *component.Sequencer) {
	if seq.Active() {
		logging.Debug().
			Add(logging.Agent(uint64(e))).
			Add(logging.Reaction(seq.Reaction.Name)).
			Add(logging.RunID(seq.RunID)).
			Msg("reaction: cancelled")
		w.Publish(EventReactionCancelled, e, ReactionNotice{Reaction: seq.Reaction.Name, RunID: seq.RunID})
	}

	seq.Reaction = nil
	seq.Phase = component.RunIdle
	seq.Timer = 0
	seq.Wait = component.WaitNone
	seq.AwaitArrival = false
	seq.Script = ""

	stopMovementLoop(w, e)
	stopRotation(w, e)
}

func finishRun(w *ecs.World, e ecs.Entity, seq *component.Sequencer) {
	name := seq.Reaction.Name
	logging.Debug().
		Add(logging.Agent(uint64(e))).
		Add(logging.Reaction(name)).
		Add(logging.RunID(seq.RunID)).
		Msg("reaction: finished")

	seq.Reaction = nil
	seq.Phase = component.RunIdle
	seq.Wait = component.WaitNone
	w.Publish(EventReactionFinished, e, ReactionNotice{Reaction: name, RunID: seq.RunID})
}

// resume reports whether the run may execute steps this tick.
func (s *ReactionSystem) resume(w *ecs.World, e ecs.Entity, seq *component.Sequencer, dt float64) bool {
	switch seq.Phase {
	case component.RunWaitingTimer:
		seq.Timer -= dt
		if seq.Timer > 0 {
			return false
		}
		seq.Timer = 0
		if seq.AwaitArrival {
			seq.AwaitArrival = false
			seq.Phase = component.RunWaitingPredicate
			seq.Wait = component.WaitArrival
			return s.predicateMet(w, e, seq)
		}
		return true
	case component.RunWaitingPredicate:
		return s.predicateMet(w, e, seq)
	case component.RunExecuting:
		return true
	}
	return false
}

func (s *ReactionSystem) predicateMet(w *ecs.World, e ecs.Entity, seq *component.Sequencer) bool {
	met := false
	switch seq.Wait {
	case component.WaitArrival:
		met = seq.Arrived
	case component.WaitScript:
		ok, err := s.evalScript(w, e, seq)
		if err != nil {
			logging.Error().
				Add(logging.Agent(uint64(e))).
				Add(logging.Reaction(seq.Reaction.Name)).
				Add(logging.ErrorField(err)).
				Msg("reaction: wait predicate failed")
			cancelRun(w, e, seq)
			return false
		}
		met = ok
	default:
		met = true
	}
	if met {
		seq.Wait = component.WaitNone
		seq.Script = ""
		seq.Phase = component.RunExecuting
	}
	return met
}

func (s *ReactionSystem) advance(w *ecs.World, e ecs.Entity, seq *component.Sequencer) {
	runID := seq.RunID
	for budget := maxStepsPerTick; budget > 0; budget-- {
		if seq.Index >= len(seq.Reaction.Steps) {
			finishRun(w, e, seq)
			return
		}

		index := seq.Index
		step := seq.Reaction.Steps[index]
		seq.Index++
		seq.Phase = component.RunExecuting

		if step.Kind.UsesLoudest() {
			RefreshSamples(w, e)
		}
		s.execute(w, e, seq, index, step)

		if seq.RunID != runID || !seq.Active() {
			return
		}
		if seq.Phase != component.RunExecuting {
			return
		}
	}

	// out of budget, pick up again next tick
	seq.Phase = component.RunWaitingTimer
	seq.Timer = 0
}

func suspendFor(seq *component.Sequencer, seconds float64) {
	seq.Phase = component.RunWaitingTimer
	seq.Timer = seconds
}

// startJitter delays the first step so that agents reacting to the same
// stimulus do not move in lockstep. A negative max disables it.
func startJitter(r *rand.Rand, max float64) float64 {
	if max < 0 {
		return 0
	}
	if max == 0 {
		max = defaultMaxJitter
	}
	return r.Float64() * max
}

func agentRand(agent *component.Agent) *rand.Rand {
	if agent.Rand == nil {
		agent.Rand = rand.New(rand.NewPCG(1, 2))
	}
	return agent.Rand
}
