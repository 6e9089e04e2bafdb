// Package pool recycles short-lived effect and sound instances. A Manager is
// owned by whoever runs the simulation; there is no package-level state.
package pool

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/earshot/logging"
)

// Instance is one pooled object. It is handed out by Spawn and returned to
// its pool by Despawn or when its timer runs out.
type Instance struct {
	Name     string
	Position cp.Vector
	Active   bool

	timed     bool
	remaining float64
}

// Remaining reports the seconds left before a timed instance is despawned.
func (i *Instance) Remaining() float64 {
	if !i.timed {
		return 0
	}
	return i.remaining
}

type objectPool struct {
	free   []*Instance
	active []*Instance
}

type Manager struct {
	pools map[string]*objectPool
}

func NewManager() *Manager {
	return &Manager{pools: map[string]*objectPool{}}
}

func (m *Manager) pool(name string) *objectPool {
	p, ok := m.pools[name]
	if !ok {
		p = &objectPool{}
		m.pools[name] = p
	}
	return p
}

// Preload fills the free list of name up to count instances.
func (m *Manager) Preload(name string, count int) {
	p := m.pool(name)
	for len(p.free)+len(p.active) < count {
		p.free = append(p.free, &Instance{Name: name})
	}
}

// Spawn activates an instance of name at pos, reusing a free one when the
// pool has any.
func (m *Manager) Spawn(name string, pos cp.Vector) *Instance {
	p := m.pool(name)
	var inst *Instance
	if n := len(p.free); n > 0 {
		inst = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		inst = &Instance{Name: name}
		logging.Trace().Add(logging.Str("pool", name)).Msg("pool: grew")
	}
	inst.Position = pos
	inst.Active = true
	inst.timed = false
	inst.remaining = 0
	p.active = append(p.active, inst)
	return inst
}

// SpawnTimed spawns an instance that despawns itself after seconds.
func (m *Manager) SpawnTimed(name string, pos cp.Vector, seconds float64) *Instance {
	inst := m.Spawn(name, pos)
	if seconds > 0 {
		inst.timed = true
		inst.remaining = seconds
	}
	return inst
}

// Despawn returns inst to its pool. Despawning an inactive instance is a
// no-op.
func (m *Manager) Despawn(inst *Instance) bool {
	if inst == nil || !inst.Active {
		return false
	}
	p, ok := m.pools[inst.Name]
	if !ok {
		return false
	}
	for i, a := range p.active {
		if a != inst {
			continue
		}
		last := len(p.active) - 1
		p.active[i] = p.active[last]
		p.active[last] = nil
		p.active = p.active[:last]

		inst.Active = false
		inst.timed = false
		inst.remaining = 0
		p.free = append(p.free, inst)
		return true
	}
	return false
}

// Update counts down timed instances and despawns the expired ones.
func (m *Manager) Update(dt float64) {
	for _, p := range m.pools {
		var expired []*Instance
		for _, inst := range p.active {
			if !inst.timed {
				continue
			}
			inst.remaining -= dt
			if inst.remaining <= 0 {
				expired = append(expired, inst)
			}
		}
		for _, inst := range expired {
			m.Despawn(inst)
		}
	}
}

// Clear drops every pool, active instances included.
func (m *Manager) Clear() {
	for _, p := range m.pools {
		for _, inst := range p.active {
			inst.Active = false
		}
	}
	m.pools = map[string]*objectPool{}
}

// ActiveCount returns the number of live instances of name.
func (m *Manager) ActiveCount(name string) int {
	if p, ok := m.pools[name]; ok {
		return len(p.active)
	}
	return 0
}

// FreeCount returns the number of idle instances of name.
func (m *Manager) FreeCount(name string) int {
	if p, ok := m.pools[name]; ok {
		return len(p.free)
	}
	return 0
}
