package component

// Detection is the agent's perception state as maintained by the detection
// layer. Unconfirmed lists the targets that are perceivable but not yet seen
// outright.
type Detection struct {
	Radius         float64
	StartingRadius float64
	PlayerTag      string

	Unconfirmed []uint64

	CombatTarget uint64
	FleeTarget   uint64
}

// Perceives reports whether target is in the unconfirmed set.
func (d *Detection) Perceives(target uint64) bool {
	for _, t := range d.Unconfirmed {
		if t == target {
			return true
		}
	}
	return false
}

var DetectionComponent = NewComponent[Detection]()
