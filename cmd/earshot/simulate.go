package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/spf13/cobra"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/component"
	"github.com/milk9111/earshot/ecs/entity"
	"github.com/milk9111/earshot/ecs/system"
	"github.com/milk9111/earshot/logging"
	"github.com/milk9111/earshot/prefabs"
)

type simulateOptions struct {
	agent     string
	ticks     int
	dt        float64
	seed      uint64
	logLevel  string
	logFormat string
	watch     bool
}

// intruderSpeed is how fast the scripted intruder walks, in units per second.
const intruderSpeed = 3.0

// intruderRoute is relative to the agent's start. It enters the detection
// radius, pauses close by and leaves again.
var intruderRoute = []cp.Vector{
	{X: 30, Y: 0},
	{X: 8, Y: 2},
	{X: 8, Y: 2},
	{X: 6, Y: -6},
	{X: 30, Y: -6},
}

func (a *App) newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one agent against a scripted intruder",
		Long: `Run a headless world with one agent built from an agent prefab and an
intruder that walks in and out of its detection radius. Tier changes and
reaction runs are logged.

Examples:
  earshot simulate --agent sentry.yaml --ticks 600
  earshot simulate --log-level debug --log-format json
  earshot simulate --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.simulate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.agent, "agent", "sentry.yaml", "Agent prefab to simulate")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 600, "Number of ticks to run (0 runs until interrupted)")
	cmd.Flags().Float64Var(&opts.dt, "dt", 0.05, "Seconds per tick")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Seed for the agent's random source")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "console", "Log format (console or json)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Run in real time and recompile reactions when prefabs change")

	return cmd
}

type simulation struct {
	w        *ecs.World
	threat   *system.ThreatSystem
	agent    ecs.Entity
	intruder ecs.Entity
	route    []cp.Vector
	leg      int
}

func (a *App) simulate(ctx context.Context, opts *simulateOptions) error {
	if opts.dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", opts.dt)
	}
	if opts.ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", opts.ticks)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logging.Set(logging.New(logging.Config{
		Level:  opts.logLevel,
		Format: opts.logFormat,
		Output: a.stderr,
	}))

	sim, err := newSimulation(opts)
	if err != nil {
		return err
	}

	var watcher *prefabs.Watcher
	var tick <-chan time.Time
	if opts.watch {
		watcher, err = prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", prefabs.Dir, err)
		}
		defer watcher.Close()
		ticker := time.NewTicker(time.Duration(opts.dt * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	for n := 0; opts.ticks == 0 || n < opts.ticks; n++ {
		if watcher == nil {
			if err := ctx.Err(); err != nil {
				break
			}
			sim.step(opts.dt)
			continue
		}
		if !a.waitTick(ctx, sim, opts.agent, watcher, tick) {
			break
		}
		sim.step(opts.dt)
	}

	th, _ := ecs.Get(sim.w, sim.agent, component.ThreatComponent.Kind())
	fmt.Fprintf(a.stdout, "ticks=%d elapsed=%.2fs tier=%s threat=%.3f\n",
		sim.w.Tick(), sim.w.Elapsed(), sim.threat.Tier(sim.agent), th.Amount)
	return nil
}

// waitTick blocks until the next real-time tick, applying prefab changes
// as they arrive. It returns false once ctx is done.
func (a *App) waitTick(ctx context.Context, sim *simulation, agentFile string, watcher *prefabs.Watcher, tick <-chan time.Time) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-tick:
			return true
		case change := <-watcher.Events:
			n, err := entity.ReloadReactions(sim.w, agentFile)
			if err != nil {
				logging.Warn().Add(logging.Str("path", change.Path)).Add(logging.ErrorField(err)).Msg("reload failed")
				continue
			}
			logging.Info().Add(logging.Str("path", change.Path)).Add(logging.Int("agents", n)).Msg("reactions reloaded")
		case err := <-watcher.Errors:
			logging.Warn().Add(logging.ErrorField(err)).Msg("prefab watcher")
		}
	}
}

func newSimulation(opts *simulateOptions) (*simulation, error) {
	w := ecs.NewWorld()
	ground := ecs.NewGround()
	ground.AddWalkableRect(-60, -60, 60, 60)
	w.SetGround(ground)

	threat, err := system.Install(w, nil)
	if err != nil {
		return nil, err
	}
	agent, err := entity.NewAgent(w, opts.agent, opts.seed)
	if err != nil {
		return nil, err
	}
	det, _ := ecs.Get(w, agent, component.DetectionComponent.Kind())
	tr, _ := ecs.Get(w, agent, component.TransformComponent.Kind())

	route := make([]cp.Vector, len(intruderRoute))
	for i, p := range intruderRoute {
		route[i] = tr.Position.Add(p)
	}
	intruder, err := entity.NewTarget(w, det.PlayerTag, route[0])
	if err != nil {
		return nil, err
	}

	sim := &simulation{w: w, threat: threat, agent: agent, intruder: intruder, route: route}
	sim.subscribe()
	return sim, nil
}

func (s *simulation) subscribe() {
	bus := s.w.Events()
	bus.Subscribe(system.EventTierChanged, func(w *ecs.World, evt ecs.Event) {
		change, _ := evt.Data.(system.TierChange)
		logging.Info().
			Add(logging.Agent(uint64(evt.Entity))).
			Add(logging.Str("from", change.From)).
			Add(logging.Tier(change.To)).
			Add(logging.Amount(change.Amount)).
			Msg("tier changed")
	})
	notice := func(msg string) ecs.Handler {
		return func(w *ecs.World, evt ecs.Event) {
			n, _ := evt.Data.(system.ReactionNotice)
			logging.Info().
				Add(logging.Agent(uint64(evt.Entity))).
				Add(logging.Reaction(n.Reaction)).
				Add(logging.RunID(n.RunID)).
				Msg(msg)
		}
	}
	bus.Subscribe(system.EventReactionStarted, notice("reaction started"))
	bus.Subscribe(system.EventReactionFinished, notice("reaction finished"))
	bus.Subscribe(system.EventReactionCancelled, notice("reaction cancelled"))
	bus.Subscribe(system.EventReachedWaypoint, func(w *ecs.World, evt ecs.Event) {
		logging.Debug().Add(logging.Agent(uint64(evt.Entity))).Msg("reached waypoint")
	})
}

// step advances the intruder, refreshes what the agent perceives and then
// runs the world.
func (s *simulation) step(dt float64) {
	tr, ok := ecs.Get(s.w, s.intruder, component.TransformComponent.Kind())
	if ok {
		next := s.route[(s.leg+1)%len(s.route)]
		delta := next.Sub(tr.Position)
		if dist := delta.Length(); dist <= intruderSpeed*dt {
			tr.Position = next
			s.leg = (s.leg + 1) % len(s.route)
		} else {
			tr.Position = tr.Position.Add(delta.Mult(intruderSpeed * dt / dist))
		}
		s.sense(tr.Position)
	}
	s.w.Update(dt)
}

// sense stands in for a detection layer: the intruder is perceived while it
// is inside the agent's radius.
func (s *simulation) sense(intruderPos cp.Vector) {
	det, ok := ecs.Get(s.w, s.agent, component.DetectionComponent.Kind())
	if !ok {
		return
	}
	agentTr, ok := ecs.Get(s.w, s.agent, component.TransformComponent.Kind())
	if !ok {
		return
	}
	id := uint64(s.intruder)
	inside := agentTr.Position.Distance(intruderPos) <= det.Radius
	switch {
	case inside && !det.Perceives(id):
		det.Unconfirmed = append(det.Unconfirmed, id)
	case !inside && det.Perceives(id):
		kept := det.Unconfirmed[:0]
		for _, t := range det.Unconfirmed {
			if t != id {
				kept = append(kept, t)
			}
		}
		det.Unconfirmed = kept
	}
}
