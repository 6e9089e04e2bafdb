package system

import (
	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/logging"
)

// execute runs one step. Steps that suspend leave the sequencer in a waiting
// phase; every other step leaves it executing so the next one follows in the
// same tick.
func (s *ReactionSystem) execute(w *ecs.World, e ecs.Entity, seq *component.Sequencer, index int, step component.ReactionStep) {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return
	}

	switch step.Kind {
	case component.StepDelay:
		suspendFor(seq, step.Seconds)

	case component.StepLog:
		logging.Info().
			Add(logging.Agent(uint64(e))).
			Add(logging.Reaction(seq.Reaction.Name)).
			Add(logging.Step(index, step.Kind.String())).
			Msg(step.Message)

	case component.StepPlaySound:
		w.Publish(EventPlaySound, e, SoundRequest{Clip: step.Clip, Volume: step.Volume, Position: positionOf(w, e)})

	case component.StepPlayEffect:
		w.Publish(EventSpawnEffect, e, EffectRequest{Effect: step.Clip, Seconds: step.Seconds, Position: positionOf(w, e)})

	case component.StepPlayEmote:
		PlayEmote(w, e, step.Emote)

	case component.StepLookAtLoudest:
		pos, target, ok := loudestPosition(w, e)
		if !ok {
			missingTarget(e, seq, index, step)
			return
		}
		if !agent.Dead {
			agent.LookAtTarget = target
		}
		StartRotateToward(w, e, pos)
		suspendFor(seq, step.Seconds)

	case component.StepSetCombatTargetToLoudest:
		_, target, ok := loudestPosition(w, e)
		if !ok {
			missingTarget(e, seq, index, step)
			return
		}
		if det, ok := ecs.Get(w, e, component.DetectionComponent.Kind()); ok {
			det.CombatTarget = target
		}

	case component.StepReturnToStart:
		if nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind()); ok {
			nav.SetDestination(agent.StartPosition)
		}

	case component.StepExpandDetection:
		if det, ok := ecs.Get(w, e, component.DetectionComponent.Kind()); ok {
			if det.StartingRadius+step.Distance != det.Radius {
				det.Radius += step.Distance
			}
		}

	case component.StepResetDetection:
		if det, ok := ecs.Get(w, e, component.DetectionComponent.Kind()); ok {
			det.Radius = det.StartingRadius
		}

	case component.StepSetMovementState:
		agent.MovementState = step.Movement

	case component.StepResetLookAt:
		if !agent.Dead {
			agent.LookAtTarget = 0
		}

	case component.StepResetAllToDefault:
		if det, ok := ecs.Get(w, e, component.DetectionComponent.Kind()); ok {
			det.Radius = det.StartingRadius
		}
		if !agent.Dead {
			agent.LookAtTarget = 0
		}
		agent.MovementState = agent.StartingMovementState
		setCombatState(w, e, false)

	case component.StepEnterCombat:
		setCombatState(w, e, true)

	case component.StepExitCombat:
		setCombatState(w, e, false)

	case component.StepFleeFromLoudest:
		_, target, ok := loudestPosition(w, e)
		if !ok {
			missingTarget(e, seq, index, step)
			return
		}
		if det, ok := ecs.Get(w, e, component.DetectionComponent.Kind()); ok {
			det.FleeTarget = target
		}

	case component.StepAttractToSource:
		s.attract(w, e, seq, index, agent, step)

	case component.StepMoveToLoudest:
		pos, _, ok := loudestPosition(w, e)
		if !ok {
			missingTarget(e, seq, index, step)
			return
		}
		if StartMovement(w, e, component.OriginLoudest, pos, 1, 0, step.Wait) {
			settle(seq, step.Block)
		}

	case component.StepMoveAroundSelf:
		if StartMovement(w, e, component.OriginSelf, positionOf(w, e), step.Waypoints, step.Radius, step.Wait) {
			settle(seq, step.Block)
		}

	case component.StepMoveAroundLoudest:
		pos, _, ok := loudestPosition(w, e)
		if !ok {
			missingTarget(e, seq, index, step)
			return
		}
		if StartMovement(w, e, component.OriginLoudest, pos, step.Waypoints, step.Radius, step.Wait) {
			settle(seq, step.Block)
		}

	case component.StepWaitUntil:
		seq.Phase = component.RunWaitingPredicate
		seq.Wait = component.WaitScript
		seq.Script = step.Script
		s.predicateMet(w, e, seq)

	default:
		logging.Warn().
			Add(logging.Agent(uint64(e))).
			Add(logging.Step(index, step.Kind.String())).
			Msg("reaction: unknown step")
	}
}

func (s *ReactionSystem) attract(w *ecs.World, e ecs.Entity, seq *component.Sequencer, index int, agent *component.Agent, step component.ReactionStep) {
	if th, ok := ecs.Get(w, e, component.ThreatComponent.Kind()); ok {
		th.SinceExternalReaction = 0
	}

	src, ok := ecs.Get(w, ecs.Entity(agent.AttractSource), component.TransformComponent.Kind())
	if agent.AttractSource == 0 || !ok || !w.IsAlive(ecs.Entity(agent.AttractSource)) {
		missingTarget(e, seq, index, step)
		return
	}

	switch step.Attract {
	case component.AttractMoveTo:
		if StartMovement(w, e, component.OriginAttractSource, src.Position, 1, 0, step.Wait) {
			settle(seq, step.Block)
		}
	case component.AttractMoveAround:
		if StartMovement(w, e, component.OriginAttractSource, src.Position, step.Waypoints, step.Radius, step.Wait) {
			settle(seq, step.Block)
		}
	case component.AttractLookAt:
		if !agent.Dead {
			agent.LookAtTarget = agent.AttractSource
		}
	}
}

// settle gives the navigation a moment to pick up the new destination and,
// for blocking steps, then waits for the movement loop to finish.
func settle(seq *component.Sequencer, block bool) {
	suspendFor(seq, settleDelay)
	seq.AwaitArrival = block
}

func setCombatState(w *ecs.World, e ecs.Entity, on bool) {
	if nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind()); ok {
		nav.ResetPath()
	}
	if layer, ok := ecs.Get(w, e, component.AnimationLayerComponent.Kind()); ok {
		layer.SetBool(component.ParamIdleActive, false)
		layer.SetBool(component.ParamCombatStateActive, on)
	}
}

func missingTarget(e ecs.Entity, seq *component.Sequencer, index int, step component.ReactionStep) {
	logging.Warn().
		Add(logging.Agent(uint64(e))).
		Add(logging.Reaction(seq.Reaction.Name)).
		Add(logging.Step(index, step.Kind.String())).
		Msg("reaction: step has no target, skipped")
}
