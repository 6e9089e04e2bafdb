package component

import "github.com/jakecoffman/cp"

// Navigation is the agent's single outstanding move request. PathPending is
// set when a destination is submitted and cleared once the path resolves.
type Navigation struct {
	Destination cp.Vector
	HasPath     bool
	PathPending bool
	Stopped     bool

	WalkSpeed         float64
	RunSpeed          float64
	StoppingDistance  float64
	RemainingDistance float64

	reachedNotified bool
}

func (n *Navigation) SetDestination(p cp.Vector) {
	n.Destination = p
	n.HasPath = true
	n.PathPending = true
	n.reachedNotified = false
}

func (n *Navigation) ResetPath() {
	n.HasPath = false
	n.PathPending = false
	n.RemainingDistance = 0
	n.reachedNotified = false
}

// HasArrived reports arrival at the current destination. With no path the
// agent is trivially arrived.
func (n *Navigation) HasArrived() bool {
	return n.RemainingDistance < n.StoppingDistance && !n.PathPending
}

// MarkReached returns true the first time it is called for the current
// destination.
func (n *Navigation) MarkReached() bool {
	if n.reachedNotified {
		return false
	}
	n.reachedNotified = true
	return true
}

var NavigationComponent = NewComponent[Navigation]()
