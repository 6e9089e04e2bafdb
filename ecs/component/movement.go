package component

import "github.com/jakecoffman/cp"

// WaypointOrigin is what a movement loop plans waypoints around.
type WaypointOrigin int

const (
	OriginSelf WaypointOrigin = iota
	OriginLoudest
	OriginAttractSource
)

// LoopPhase is the movement loop's progress.
type LoopPhase int

const (
	LoopSettling LoopPhase = iota
	LoopRunning
	LoopFinishing
)

// MovementLoop is the one waypoint-planning loop an agent may run. Center is
// the last resolved position of Origin.
type MovementLoop struct {
	Active bool
	Phase  LoopPhase
	Timer  float64

	Origin  WaypointOrigin
	Center  cp.Vector
	Total   int
	Current int
	Radius  float64
	Wait    float64
	Waited  float64
}

var MovementLoopComponent = NewComponent[MovementLoop]()
