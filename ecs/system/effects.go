package system

import (
	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/logging"
	"github.com/milk9111/earshot/pool"
)

// defaultLifetime is how long a pooled instance stays checked out when the
// request does not say.
const defaultLifetime = 2.0

// EffectsSystem spawns pooled effect and sound instances for the requests
// reactions publish, and returns them to the pool when they expire.
type EffectsSystem struct {
	pool *pool.Manager
}

func NewEffectsSystem(m *pool.Manager) *EffectsSystem {
	if m == nil {
		m = pool.NewManager()
	}
	return &EffectsSystem{pool: m}
}

func (s *EffectsSystem) Pool() *pool.Manager {
	return s.pool
}

func (s *EffectsSystem) Register(w *ecs.World) {
	bus := w.Events()
	bus.Subscribe(EventPlaySound, s.onPlaySound)
	bus.Subscribe(EventSpawnEffect, s.onSpawnEffect)
}

func (s *EffectsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.pool.Update(w.Delta())
}

func (s *EffectsSystem) onPlaySound(w *ecs.World, evt ecs.Event) {
	req, ok := evt.Data.(SoundRequest)
	if !ok || req.Clip == "" {
		return
	}
	s.pool.SpawnTimed("sound:"+req.Clip, req.Position, defaultLifetime)
	logging.Debug().
		Add(logging.Agent(uint64(evt.Entity))).
		Add(logging.Str("clip", req.Clip)).
		Add(logging.Float("volume", req.Volume)).
		Msg("effects: sound")
}

func (s *EffectsSystem) onSpawnEffect(w *ecs.World, evt ecs.Event) {
	req, ok := evt.Data.(EffectRequest)
	if !ok || req.Effect == "" {
		return
	}
	lifetime := req.Seconds
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}
	s.pool.SpawnTimed("effect:"+req.Effect, req.Position, lifetime)
	logging.Debug().
		Add(logging.Agent(uint64(evt.Entity))).
		Add(logging.Str("effect", req.Effect)).
		Msg("effects: spawned")
}
