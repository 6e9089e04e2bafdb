package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
)

const predicateResult = "__result"

// Variables visible to wait_until predicates.
var predicateVars = map[string]any{
	"arrived":       false,
	"engaged":       false,
	"threat":        0.0,
	"tier":          "",
	"moving_target": false,
	"samples":       0,
	"elapsed":       0.0,
	"wander":        "",
}

// WrapExpression turns an inline predicate expression into a script.
func WrapExpression(expr string) string {
	return predicateResult + " := (" + strings.TrimSpace(expr) + ")"
}

// WrapScript turns a predicate script that assigns result into a runnable
// script.
func WrapScript(src string) string {
	return src + "\n" + predicateResult + " := result\n"
}

type predicate struct {
	compiled *tengo.Compiled
}

func compilePredicate(src string) (*predicate, error) {
	script := tengo.NewScript([]byte(src))
	for name, zero := range predicateVars {
		if err := script.Add(name, zero); err != nil {
			return nil, fmt.Errorf("script: add %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "text", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	return &predicate{compiled: compiled}, nil
}

func (p *predicate) eval(vars map[string]any) (bool, error) {
	for name, v := range vars {
		if err := p.compiled.Set(name, v); err != nil {
			return false, fmt.Errorf("script: set %s: %w", name, err)
		}
	}
	if err := p.compiled.Run(); err != nil {
		return false, fmt.Errorf("script: run: %w", err)
	}
	result := p.compiled.Get(predicateResult)
	if result.IsUndefined() {
		return false, fmt.Errorf("script: %s is never assigned", predicateResult)
	}
	return result.Bool(), nil
}

func (s *ReactionSystem) evalScript(w *ecs.World, e ecs.Entity, seq *component.Sequencer) (bool, error) {
	p, ok := s.scripts[seq.Script]
	if !ok {
		compiled, err := compilePredicate(seq.Script)
		if err != nil {
			return false, err
		}
		p = compiled
		s.scripts[seq.Script] = p
	}
	return p.eval(predicateInputs(w, e, seq))
}

func predicateInputs(w *ecs.World, e ecs.Entity, seq *component.Sequencer) map[string]any {
	vars := map[string]any{
		"arrived":       seq.Arrived,
		"engaged":       isEngaged(w, e),
		"threat":        0.0,
		"tier":          component.TierBaseline.String(),
		"moving_target": false,
		"samples":       0,
		"elapsed":       seq.Elapsed,
		"wander":        "",
	}
	if th, ok := ecs.Get(w, e, component.ThreatComponent.Kind()); ok {
		vars["threat"] = th.Amount
		vars["tier"] = th.Tier.String()
	}
	if tel, ok := ecs.Get(w, e, component.TelemetryComponent.Kind()); ok {
		vars["moving_target"] = tel.MovingTargetDetected
		vars["samples"] = len(tel.Samples)
	}
	if agent, ok := ecs.Get(w, e, component.AgentComponent.Kind()); ok {
		vars["wander"] = agent.WanderMode.String()
	}
	return vars
}
