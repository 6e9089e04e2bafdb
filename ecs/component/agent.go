package component

import (
	"math/rand/v2"

	"github.com/jakecoffman/cp"
)

// WanderMode is the agent's idle locomotion behaviour.
type WanderMode int

const (
	WanderStationary WanderMode = iota
	WanderDynamic
	WanderWaypoints
	WanderDestination
)

var wanderModeNames = map[WanderMode]string{
	WanderStationary:  "stationary",
	WanderDynamic:     "dynamic",
	WanderWaypoints:   "waypoints",
	WanderDestination: "destination",
}

func (m WanderMode) String() string {
	if name, ok := wanderModeNames[m]; ok {
		return name
	}
	return "unknown"
}

func ParseWanderMode(s string) (WanderMode, bool) {
	for mode, name := range wanderModeNames {
		if name == s {
			return mode, true
		}
	}
	return WanderStationary, false
}

// MovementState selects walk or run speed.
type MovementState int

const (
	MovementWalk MovementState = iota
	MovementRun
)

func (m MovementState) String() string {
	if m == MovementRun {
		return "run"
	}
	return "walk"
}

func ParseMovementState(s string) (MovementState, bool) {
	switch s {
	case "walk":
		return MovementWalk, true
	case "run":
		return MovementRun, true
	}
	return MovementWalk, false
}

// Agent is the perceiving NPC. Entity references are generational handles
// (ecs.Entity) stored as uint64; zero means none.
type Agent struct {
	Name          string
	StartPosition cp.Vector

	StartingWanderMode WanderMode
	WanderMode         WanderMode

	StartingMovementState MovementState
	MovementState         MovementState

	LookAtTarget  uint64
	AttractSource uint64

	DetectorEnabled bool
	Dead            bool

	// Rand is owned by this agent alone; jitter, waypoint offsets and
	// animation indices draw from it.
	Rand *rand.Rand
}

var AgentComponent = NewComponent[Agent]()
