package system

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/milk9111/earshot/common"
	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/logging"
)

// ThreatSystem turns telemetry into a threat amount and moves each agent
// through the baseline, elevated and confirmed tiers, invoking the reaction
// bound to every tier it enters.
type ThreatSystem struct {
	config   *statekit.MachineConfig[*tierContext]
	machines map[ecs.Entity]*tierMachine
}

func NewThreatSystem() (*ThreatSystem, error) {
	config, err := newTierMachineConfig()
	if err != nil {
		return nil, err
	}
	return &ThreatSystem{
		config:   config,
		machines: map[ecs.Entity]*tierMachine{},
	}, nil
}

func (s *ThreatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach2(w, component.ThreatComponent.Kind(), component.TelemetryComponent.Kind(), func(e ecs.Entity, th *component.Threat, tel *component.Telemetry) {
		if !detectorActive(w, e) {
			return
		}
		det, ok := ecs.Get(w, e, component.DetectionComponent.Kind())
		if !ok {
			return
		}
		combat, _ := ecs.Get(w, e, component.CombatComponent.Kind())

		m := s.machine(w, e)
		th.SinceExternalReaction += dt

		accumulateThreat(th, tel, det.Radius, dt)
		s.checkEngagement(w, e, th, tel, combat)
		if s.checkDowngrade(w, e, m, th, tel, det, combat, dt) {
			return
		}
		s.checkUpgrade(w, e, m, th)
	})

	s.prune(w)
}

// Tier reports the tier the machine of e is in.
func (s *ThreatSystem) Tier(e ecs.Entity) component.Tier {
	if m, ok := s.machines[e]; ok {
		return m.Tier()
	}
	return component.TierBaseline
}

func (s *ThreatSystem) machine(w *ecs.World, e ecs.Entity) *tierMachine {
	if m, ok := s.machines[e]; ok {
		return m
	}
	m := newTierMachine(s.config, func(tier component.Tier) {
		th, ok := ecs.Get(w, e, component.ThreatComponent.Kind())
		if !ok {
			return
		}
		InvokeReaction(w, e, th.Reactions.For(tier), false)
	})
	s.machines[e] = m
	return m
}

func (s *ThreatSystem) prune(w *ecs.World) {
	for e := range s.machines {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.ThreatComponent.Kind()) {
			delete(s.machines, e)
		}
	}
}

// accumulateThreat raises the amount while a moving target is sampled and
// lets it decay once nothing has moved for FalloffDelay seconds. Closer and
// faster targets raise it quicker.
func accumulateThreat(th *component.Threat, tel *component.Telemetry, radius, dt float64) {
	cfg := th.Config
	loudest, ok := tel.Loudest()
	if tel.MovingTargetDetected && ok {
		rate := cfg.AttentionRate + cfg.VelocityFactor*cfg.VelocityScale*loudest.Velocity
		if radius > 0 {
			rate += cfg.DistanceFactor * (1 - common.Clamp01(loudest.Distance/radius))
		}
		th.Amount = common.MoveTowards(th.Amount, 1, rate*dt)
		th.FalloffTimer = 0
		return
	}

	th.FalloffTimer += dt
	if th.FalloffTimer > cfg.FalloffDelay {
		th.Amount = common.MoveTowards(th.Amount, 0, cfg.Falloff*dt)
	}
}

func (s *ThreatSystem) checkEngagement(w *ecs.World, e ecs.Entity, th *component.Threat, tel *component.Telemetry, combat *component.Combat) {
	engaged := combat != nil && combat.Engaged
	if engaged {
		seq, _ := ecs.Get(w, e, component.SequencerComponent.Kind())
		if !th.WasEngaged || len(tel.Samples) > 0 || (seq != nil && seq.Active()) {
			CancelAll(w, e, true)
			tel.Clear()
		}
	}
	th.WasEngaged = engaged
}

// checkDowngrade returns true while the downgrade countdown is running.
func (s *ThreatSystem) checkDowngrade(w *ecs.World, e ecs.Entity, m *tierMachine, th *component.Threat, tel *component.Telemetry, det *component.Detection, combat *component.Combat, dt float64) bool {
	latched := th.ElevatedLatch || th.ConfirmedLatch
	free := combat == nil || !combat.Engaged || combat.Obstructed
	if !latched || th.Amount > th.Config.BaselineLevel || !free {
		th.DowngradeTimer = 0
		return false
	}

	th.DowngradeTimer += dt
	if th.DowngradeTimer < th.Config.DowngradeDelay {
		return true
	}

	from := th.Tier
	m.send(tierEventDowngrade)

	th.Amount = 0
	th.Tier = component.TierBaseline
	th.ElevatedLatch = false
	th.ConfirmedLatch = false
	th.DowngradeTimer = 0
	th.FalloffTimer = 0
	tel.Retain(func(sample component.TargetSample) bool {
		return det.Perceives(sample.Target)
	})

	s.announce(w, e, from, th)
	return true
}

func (s *ThreatSystem) checkUpgrade(w *ecs.World, e ecs.Entity, m *tierMachine, th *component.Threat) {
	cfg := th.Config
	switch {
	case th.Amount >= cfg.ElevatedLevel && th.Amount < cfg.ConfirmedLevel && !th.ElevatedLatch:
		th.ElevatedLatch = true
		s.raise(w, e, m, th, tierEventElevate)
	case th.Amount >= cfg.ConfirmedLevel && !th.ConfirmedLatch:
		th.ConfirmedLatch = true
		s.raise(w, e, m, th, tierEventConfirm)
	}
}

// raise moves the machine up. A latch crossed while already at or above the
// matching tier is recorded without a reaction.
func (s *ThreatSystem) raise(w *ecs.World, e ecs.Entity, m *tierMachine, th *component.Threat, ev statekit.EventType) {
	from := th.Tier
	if !m.send(ev) {
		return
	}
	th.Tier = m.Tier()
	s.announce(w, e, from, th)
}

func (s *ThreatSystem) announce(w *ecs.World, e ecs.Entity, from component.Tier, th *component.Threat) {
	if from == th.Tier {
		return
	}
	logging.Debug().
		Add(logging.Agent(uint64(e))).
		Add(logging.Str("from", from.String())).
		Add(logging.Tier(th.Tier.String())).
		Add(logging.Amount(th.Amount)).
		Msg("threat: tier changed")
	w.Publish(EventTierChanged, e, TierChange{From: from.String(), To: th.Tier.String(), Amount: th.Amount})
}
