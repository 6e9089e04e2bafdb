package system

import (
	"math"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
)

// NavigationSystem moves agents straight toward their destination at walk
// or run speed. A destination set during a tick is picked up on the next
// one, the way a path request resolves a frame later.
type NavigationSystem struct{}

func NewNavigationSystem() *NavigationSystem {
	return &NavigationSystem{}
}

func (s *NavigationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach2(w, component.NavigationComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, nav *component.Navigation, tr *component.Transform) {
		speed := 0.0
		defer func() {
			if layer, ok := ecs.Get(w, e, component.AnimationLayerComponent.Kind()); ok {
				layer.SetFloat(component.ParamSpeed, speed)
			}
		}()

		if !nav.HasPath {
			nav.RemainingDistance = 0
			return
		}
		if nav.PathPending {
			nav.PathPending = false
			nav.RemainingDistance = tr.Position.Distance(nav.Destination)
			return
		}

		remaining := tr.Position.Distance(nav.Destination)
		if !nav.Stopped && remaining > 0 && dt > 0 {
			step := math.Min(maxSpeed(w, e, nav)*dt, remaining)
			dir := nav.Destination.Sub(tr.Position).Normalize()
			tr.Position = tr.Position.Add(dir.Mult(step))
			tr.Forward = dir
			remaining -= step
			speed = step / dt
		}
		nav.RemainingDistance = remaining

		if nav.HasArrived() && nav.MarkReached() {
			w.Publish(EventReachedWaypoint, e, nil)
		}
	})
}

func maxSpeed(w *ecs.World, e ecs.Entity, nav *component.Navigation) float64 {
	if agent, ok := ecs.Get(w, e, component.AgentComponent.Kind()); ok && agent.MovementState == component.MovementRun {
		return nav.RunSpeed
	}
	return nav.WalkSpeed
}
