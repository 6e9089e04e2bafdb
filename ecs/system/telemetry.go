package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
)

// TelemetrySystem keeps one sample per perceived target: where it was last
// seen, how fast it moved over the last tick and how far it is from the agent.
type TelemetrySystem struct{}

func NewTelemetrySystem() *TelemetrySystem {
	return &TelemetrySystem{}
}

func (s *TelemetrySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach2(w, component.TelemetryComponent.Kind(), component.DetectionComponent.Kind(), func(e ecs.Entity, tel *component.Telemetry, det *component.Detection) {
		if !detectorActive(w, e) {
			return
		}
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}

		// engaged agents and empty perception sets never flag motion
		if isEngaged(w, e) || len(det.Unconfirmed) == 0 {
			tel.MovingTargetDetected = false
			return
		}

		collectSamples(w, tr.Position, det, tel)
		sampleTargets(w, tr.Position, tel, dt)
	})
}

// RefreshSamples adds samples for newly perceived targets and updates the
// distance of existing ones. Velocities are left alone; a reaction step that
// reads the loudest target calls this so it never acts on a stale position.
func RefreshSamples(w *ecs.World, e ecs.Entity) {
	tel, ok := ecs.Get(w, e, component.TelemetryComponent.Kind())
	if !ok {
		return
	}
	det, ok := ecs.Get(w, e, component.DetectionComponent.Kind())
	if !ok {
		return
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}

	collectSamples(w, tr.Position, det, tel)
	for i := range tel.Samples {
		if target, ok := targetTransform(w, tel.Samples[i].Target, ""); ok {
			tel.Samples[i].Distance = tr.Position.Distance(target.Position)
		}
	}
}

func collectSamples(w *ecs.World, origin cp.Vector, det *component.Detection, tel *component.Telemetry) {
	for _, target := range det.Unconfirmed {
		if tel.Find(target) >= 0 {
			continue
		}
		tr, ok := targetTransform(w, target, det.PlayerTag)
		if !ok {
			continue
		}
		tel.Samples = append(tel.Samples, component.TargetSample{
			Target:       target,
			LastPosition: tr.Position,
			Velocity:     tel.MinVelocity,
			Distance:     origin.Distance(tr.Position),
			Salience:     tel.MinVelocity,
		})
	}
}

func sampleTargets(w *ecs.World, origin cp.Vector, tel *component.Telemetry, dt float64) {
	moving := false
	for i := range tel.Samples {
		sample := &tel.Samples[i]
		tr, ok := targetTransform(w, sample.Target, "")
		if !ok {
			continue
		}

		sample.Distance = origin.Distance(tr.Position)
		if dt > 0 {
			sample.Velocity = tr.Position.Distance(sample.LastPosition) / dt
		}
		sample.LastPosition = tr.Position
		sample.Salience = sample.Velocity

		if sample.Velocity > tel.MinVelocity {
			moving = true
		}
	}
	// no samples at all counts as nothing moving
	tel.MovingTargetDetected = moving
}

// targetTransform resolves a perceived target. A non-empty tag filters out
// targets that carry a different tag.
func targetTransform(w *ecs.World, target uint64, tag string) (*component.Transform, bool) {
	ent := ecs.Entity(target)
	if target == 0 || !w.IsAlive(ent) {
		return nil, false
	}
	if tag != "" {
		t, ok := ecs.Get(w, ent, component.TagComponent.Kind())
		if !ok || t.Name != tag {
			return nil, false
		}
	}
	return ecs.Get(w, ent, component.TransformComponent.Kind())
}

func detectorActive(w *ecs.World, e ecs.Entity) bool {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	return ok && agent.DetectorEnabled && !agent.Dead
}

func isEngaged(w *ecs.World, e ecs.Entity) bool {
	c, ok := ecs.Get(w, e, component.CombatComponent.Kind())
	return ok && c.Engaged
}

// loudestPosition returns the live position of the loudest target, falling
// back to its last sampled position once the target is gone.
func loudestPosition(w *ecs.World, e ecs.Entity) (cp.Vector, uint64, bool) {
	tel, ok := ecs.Get(w, e, component.TelemetryComponent.Kind())
	if !ok {
		return cp.Vector{}, 0, false
	}
	sample, ok := tel.Loudest()
	if !ok {
		return cp.Vector{}, 0, false
	}
	if tr, ok := targetTransform(w, sample.Target, ""); ok {
		return tr.Position, sample.Target, true
	}
	return sample.LastPosition, sample.Target, true
}
