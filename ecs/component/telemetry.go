package component

import "github.com/jakecoffman/cp"

// TargetSample tracks one perceivable-but-unconfirmed target.
type TargetSample struct {
	Target       uint64
	LastPosition cp.Vector
	Velocity     float64
	Distance     float64
	Salience     float64
}

// Telemetry holds at most one sample per target.
type Telemetry struct {
	Samples              []TargetSample
	MovingTargetDetected bool
	MinVelocity          float64
}

// Find returns the index of target's sample or -1.
func (t *Telemetry) Find(target uint64) int {
	for i := range t.Samples {
		if t.Samples[i].Target == target {
			return i
		}
	}
	return -1
}

// Loudest returns the sample with maximum salience. Ties go to the first in
// iteration order.
func (t *Telemetry) Loudest() (TargetSample, bool) {
	best := -1
	for i := range t.Samples {
		if best < 0 || t.Samples[i].Salience > t.Samples[best].Salience {
			best = i
		}
	}
	if best < 0 {
		return TargetSample{}, false
	}
	return t.Samples[best], true
}

// Retain keeps only the samples for which keep returns true.
func (t *Telemetry) Retain(keep func(TargetSample) bool) {
	out := t.Samples[:0]
	for _, s := range t.Samples {
		if keep(s) {
			out = append(out, s)
		}
	}
	for i := len(out); i < len(t.Samples); i++ {
		t.Samples[i] = TargetSample{}
	}
	t.Samples = out
}

func (t *Telemetry) Clear() {
	t.Samples = t.Samples[:0]
	t.MovingTargetDetected = false
}

var TelemetryComponent = NewComponent[Telemetry]()
