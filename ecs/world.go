package ecs

import "github.com/milk9111/earshot/ecs/component"

// World owns entities, component stores, the system order and the event bus.
// All time the systems see is the scaled tick delta.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]componentStore
	scheduler Scheduler
	events    EventBus
	ground    *Ground

	dt        float64
	elapsed   float64
	timeScale float64
	tick      uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]componentStore),
		timeScale: 1,
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and retires its handle.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is current.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.scheduler.Add(s)
	if r, ok := s.(Registrar); ok {
		r.Register(w)
	}
}

// Update advances the world by dt seconds, scaled by the time scale, then
// dispatches the events raised during the tick.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.dt = dt * w.timeScale
	w.elapsed += w.dt
	w.tick++
	w.scheduler.Update(w)
	w.events.flush(w)
}

// Delta returns the scaled duration of the current tick.
func (w *World) Delta() float64 {
	return w.dt
}

// Elapsed returns the scaled time accumulated over all ticks.
func (w *World) Elapsed() float64 {
	return w.elapsed
}

// Tick returns the number of completed or running ticks.
func (w *World) Tick() uint64 {
	return w.tick
}

// SetTimeScale scales every future tick delta. Zero pauses all timers.
func (w *World) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	w.timeScale = scale
}

func (w *World) TimeScale() float64 {
	return w.timeScale
}

// Events returns the world event bus.
func (w *World) Events() *EventBus {
	if w == nil {
		return nil
	}
	return &w.events
}

// Publish queues an event on the world bus.
func (w *World) Publish(kind EventKind, e Entity, data any) {
	if w == nil {
		return
	}
	w.events.Push(Event{Kind: kind, Entity: e, Data: data})
}

// SetGround installs the walkable ground field used for waypoint validation.
func (w *World) SetGround(g *Ground) {
	w.ground = g
}

// Ground returns the installed ground field, or nil.
func (w *World) Ground() *Ground {
	if w == nil {
		return nil
	}
	return w.ground
}

// CreateEntity allocates a new entity in w.
func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

// DestroyEntity destroys e in w.
func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

// IsAlive reports whether e is alive in w.
func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.live()
}
