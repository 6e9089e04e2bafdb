package system

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/milk9111/earshot/ecs/component"
)

const (
	tierStateBaseline  statekit.StateID = "baseline"
	tierStateElevated  statekit.StateID = "elevated"
	tierStateConfirmed statekit.StateID = "confirmed"
)

const (
	tierEventElevate   statekit.EventType = "ELEVATE"
	tierEventConfirm   statekit.EventType = "CONFIRM"
	tierEventDowngrade statekit.EventType = "DOWNGRADE"
)

// tierContext is the per-agent machine context. enter runs as the transition
// action with the tier being entered.
type tierContext struct {
	enter func(component.Tier)
}

// newTierMachineConfig builds the tier chart. Tiers only climb through
// ELEVATE and CONFIRM; DOWNGRADE is the only way back to baseline.
func newTierMachineConfig() (*statekit.MachineConfig[*tierContext], error) {
	return statekit.NewMachine[*tierContext]("threat_tier").
		WithInitial(tierStateBaseline).
		WithContext(&tierContext{}).
		WithAction("enterTier", enterTier).
		State(tierStateBaseline).
		On(tierEventElevate).Target(tierStateElevated).Do("enterTier").
		On(tierEventConfirm).Target(tierStateConfirmed).Do("enterTier").
		Done().
		State(tierStateElevated).
		On(tierEventConfirm).Target(tierStateConfirmed).Do("enterTier").
		On(tierEventDowngrade).Target(tierStateBaseline).Do("enterTier").
		Done().
		State(tierStateConfirmed).
		On(tierEventDowngrade).Target(tierStateBaseline).Do("enterTier").
		Done().
		Build()
}

func enterTier(ctx **tierContext, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).enter == nil {
		return
	}
	(*ctx).enter(tierForEvent(event.Type))
}

func tierForEvent(ev statekit.EventType) component.Tier {
	switch ev {
	case tierEventElevate:
		return component.TierElevated
	case tierEventConfirm:
		return component.TierConfirmed
	default:
		return component.TierBaseline
	}
}

func tierForState(id statekit.StateID) component.Tier {
	switch id {
	case tierStateElevated:
		return component.TierElevated
	case tierStateConfirmed:
		return component.TierConfirmed
	default:
		return component.TierBaseline
	}
}

// tierMachine wraps one agent's interpreter.
type tierMachine struct {
	interp *statekit.Interpreter[*tierContext]
}

func newTierMachine(config *statekit.MachineConfig[*tierContext], enter func(component.Tier)) *tierMachine {
	ctx := &tierContext{enter: enter}
	interp := statekit.NewInterpreter(config)
	interp.UpdateContext(func(c **tierContext) {
		*c = ctx
	})
	interp.Start()
	return &tierMachine{interp: interp}
}

func (m *tierMachine) Tier() component.Tier {
	return tierForState(m.interp.State().Value)
}

// accepts mirrors the chart so that Send is only called with events the
// current state handles.
func (m *tierMachine) accepts(ev statekit.EventType) bool {
	switch ev {
	case tierEventElevate:
		return m.interp.Matches(tierStateBaseline)
	case tierEventConfirm:
		return !m.interp.Matches(tierStateConfirmed)
	case tierEventDowngrade:
		return !m.interp.Matches(tierStateBaseline)
	}
	return false
}

// send fires ev and reports whether a transition happened.
func (m *tierMachine) send(ev statekit.EventType) bool {
	if !m.accepts(ev) {
		return false
	}
	m.interp.Send(statekit.Event{Type: ev})
	return true
}
