package system

import (
	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/logging"
)

// EnableDetector turns perception back on for e.
func EnableDetector(w *ecs.World, e ecs.Entity) bool {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return false
	}
	agent.DetectorEnabled = true
	return true
}

// DisableDetector turns perception off for e, cancelling whatever reaction
// is running and forgetting every sampled target.
func DisableDetector(w *ecs.World, e ecs.Entity) bool {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return false
	}
	CancelAll(w, e, false)
	agent.DetectorEnabled = false
	if tel, ok := ecs.Get(w, e, component.TelemetryComponent.Kind()); ok {
		tel.Clear()
	}
	return true
}

// ClearLookAtTarget drops the look-at target of e when it is one of the
// sampled targets. Targets set by other systems are left alone.
func ClearLookAtTarget(w *ecs.World, e ecs.Entity) bool {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok || agent.LookAtTarget == 0 {
		return false
	}
	tel, ok := ecs.Get(w, e, component.TelemetryComponent.Kind())
	if !ok || tel.Find(agent.LookAtTarget) < 0 {
		return false
	}
	agent.LookAtTarget = 0
	return true
}

// Attract points e at source and runs r as an external reaction.
func Attract(w *ecs.World, e ecs.Entity, source ecs.Entity, r *component.Reaction) bool {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return false
	}
	if !w.IsAlive(source) {
		logging.Warn().
			Add(logging.Agent(uint64(e))).
			Add(logging.Entity("source", uint64(source))).
			Msg("attract: source is gone")
		return false
	}
	agent.AttractSource = uint64(source)
	return InvokeReaction(w, e, r, true)
}
