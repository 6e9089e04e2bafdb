package system

import (
	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/pool"
)

// Install adds the perception and reaction systems to w in update order.
// effects may be nil, in which case a private pool is created.
func Install(w *ecs.World, effects *pool.Manager) (*ThreatSystem, error) {
	threat, err := NewThreatSystem()
	if err != nil {
		return nil, err
	}

	w.AddSystem(NewTelemetrySystem())
	w.AddSystem(threat)
	w.AddSystem(NewReactionSystem())
	w.AddSystem(NewMovementSystem())
	w.AddSystem(NewTurningSystem())
	w.AddSystem(NewNavigationSystem())
	w.AddSystem(NewAnimationStateSystem())
	w.AddSystem(NewEffectsSystem(effects))
	return threat, nil
}
