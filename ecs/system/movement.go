package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/logging"
)

// navigableSampleDistance is how far from a candidate waypoint the ground is
// searched for a navigable point.
const navigableSampleDistance = 5.0

// MovementSystem runs waypoint loops started by reaction steps: wait at each
// waypoint, pick the next one around the loop center, and mark the run as
// arrived once the last waypoint has been waited out.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach(w, component.MovementLoopComponent.Kind(), func(e ecs.Entity, loop *component.MovementLoop) {
		if !loop.Active {
			return
		}
		nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind())
		if !ok {
			loop.Active = false
			return
		}

		if loop.Phase == component.LoopSettling {
			loop.Timer -= dt
			if loop.Timer > 0 {
				return
			}
			clearTurning(w, e)
			if loop.Total < 1 {
				loop.Phase = component.LoopFinishing
				loop.Timer = loop.Wait
				return
			}
			loop.Phase = component.LoopRunning
		}

		switch loop.Phase {
		case component.LoopRunning:
			s.run(w, e, loop, nav, dt)
		case component.LoopFinishing:
			loop.Timer -= dt
			if loop.Timer <= 0 {
				endMovementLoop(w, e, loop, true)
			}
		}
	})
}

func (s *MovementSystem) run(w *ecs.World, e ecs.Entity, loop *component.MovementLoop, nav *component.Navigation, dt float64) {
	if isEngaged(w, e) {
		endMovementLoop(w, e, loop, false)
		return
	}
	if !nav.HasArrived() {
		return
	}

	loop.Waited += dt
	if loop.Waited <= loop.Wait {
		return
	}
	loop.Waited = 0
	clearTurning(w, e)

	if loop.Current >= loop.Total {
		nav.ResetPath()
		loop.Phase = component.LoopFinishing
		loop.Timer = loop.Wait
		return
	}

	loop.Center = loopCenter(w, e, loop)
	GenerateWaypoint(w, e, loop.Radius, loop.Center)
	loop.Current++
}

// loopCenter resolves the loop's origin for the next waypoint. A gone
// loudest target or attract source keeps the last known center.
func loopCenter(w *ecs.World, e ecs.Entity, loop *component.MovementLoop) cp.Vector {
	switch loop.Origin {
	case component.OriginSelf:
		return positionOf(w, e)
	case component.OriginLoudest:
		if pos, _, ok := loudestPosition(w, e); ok {
			return pos
		}
	case component.OriginAttractSource:
		agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
		if !ok || agent.AttractSource == 0 || !w.IsAlive(ecs.Entity(agent.AttractSource)) {
			break
		}
		if tr, ok := ecs.Get(w, ecs.Entity(agent.AttractSource), component.TransformComponent.Kind()); ok {
			return tr.Position
		}
	}
	return loop.Center
}

// StartMovement begins a loop of total waypoints. The first is planned around
// center; later ones around wherever origin is at the time. The agent stops
// wandering until the loop ends.
func StartMovement(w *ecs.World, e ecs.Entity, origin component.WaypointOrigin, center cp.Vector, total int, radius, wait float64) bool {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return false
	}
	nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind())
	if !ok {
		logging.Warn().Add(logging.Agent(uint64(e))).Add(logging.Component("navigation")).Msg("movement: agent cannot navigate")
		return false
	}
	loop, ok := ecs.Get(w, e, component.MovementLoopComponent.Kind())
	if !ok {
		loop = &component.MovementLoop{}
		if err := ecs.Add(w, e, component.MovementLoopComponent.Kind(), loop); err != nil {
			return false
		}
	}

	agent.WanderMode = component.WanderStationary
	if seq, ok := ecs.Get(w, e, component.SequencerComponent.Kind()); ok {
		seq.Arrived = false
	}
	nav.ResetPath()

	*loop = component.MovementLoop{
		Active:  true,
		Phase:   component.LoopSettling,
		Timer:   settleDelay,
		Origin:  origin,
		Center:  center,
		Total:   total,
		Current: 1,
		Radius:  radius,
		Wait:    wait,
	}
	if total >= 1 {
		GenerateWaypoint(w, e, radius, center)
	}
	return true
}

// GenerateWaypoint picks one of the nine grid points around origin spaced
// radius apart and sends the agent there. Points off the walkable ground are
// dropped silently; the loop simply waits again and retries.
func GenerateWaypoint(w *ecs.World, e ecs.Entity, radius float64, origin cp.Vector) bool {
	nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind())
	if !ok {
		return false
	}
	if radius <= 0 {
		nav.SetDestination(origin)
		return true
	}

	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return false
	}
	r := agentRand(agent)
	offset := cp.Vector{X: float64(r.IntN(3) - 1), Y: float64(r.IntN(3) - 1)}
	dest := origin.Add(offset.Mult(radius))

	ground := w.Ground()
	if !ground.Walkable(dest) {
		return false
	}
	if _, ok := ground.SampleNavigable(dest, navigableSampleDistance); !ok {
		return false
	}
	nav.SetDestination(dest)
	return true
}

func endMovementLoop(w *ecs.World, e ecs.Entity, loop *component.MovementLoop, arrived bool) {
	loop.Active = false
	if arrived {
		if seq, ok := ecs.Get(w, e, component.SequencerComponent.Kind()); ok {
			seq.Arrived = true
		}
	}
	if agent, ok := ecs.Get(w, e, component.AgentComponent.Kind()); ok {
		agent.WanderMode = agent.StartingWanderMode
	}
}

func stopMovementLoop(w *ecs.World, e ecs.Entity) {
	loop, ok := ecs.Get(w, e, component.MovementLoopComponent.Kind())
	if !ok || !loop.Active {
		return
	}
	endMovementLoop(w, e, loop, false)
}

func positionOf(w *ecs.World, e ecs.Entity) cp.Vector {
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return tr.Position
	}
	return cp.Vector{}
}
