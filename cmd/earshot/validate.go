package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/earshot/ecs"
	"github.com/milk9111/earshot/ecs/entity"
	"github.com/milk9111/earshot/ecs/system"
	"github.com/milk9111/earshot/prefabs"
)

func (a *App) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Compile every agent and reaction prefab",
		Long: `Compile every agent prefab and every reaction prefab, including predicate
scripts, and report the ones that fail. Files under the prefabs directory on
disk override the embedded copies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate()
		},
	}
}

func (a *App) validate() error {
	agents, err := prefabs.List("")
	if err != nil {
		return fmt.Errorf("list agents: %w", err)
	}
	reactions, err := prefabs.List("reactions")
	if err != nil {
		return fmt.Errorf("list reactions: %w", err)
	}

	failed := 0
	report := func(name string, err error) {
		if err != nil {
			failed++
			fmt.Fprintf(a.stdout, "FAIL %s: %v\n", name, err)
			return
		}
		fmt.Fprintf(a.stdout, "ok   %s\n", name)
	}

	w := ecs.NewWorld()
	for _, name := range agents {
		_, err := entity.NewAgent(w, name, 1)
		report(name, err)
	}
	for _, name := range reactions {
		_, err := system.LoadReaction(name)
		report(name, err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d prefabs failed", failed, len(agents)+len(reactions))
	}
	return nil
}
