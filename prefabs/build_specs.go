package prefabs

import "gopkg.in/yaml.v3"

// DecodeComponentSpec re-decodes a loosely typed YAML value, such as the
// argument of a reaction step, into T.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// Step argument shapes. Scalar shorthands (`delay: 2`, `log: "text"`) are
// handled by the step registry directly.

type DelayStepSpec struct {
	Seconds float64 `yaml:"seconds"`
}

type SoundStepSpec struct {
	Clip   string  `yaml:"clip"`
	Volume float64 `yaml:"volume"`
}

type EffectStepSpec struct {
	Effect  string  `yaml:"effect"`
	Seconds float64 `yaml:"seconds"`
}

type MoveStepSpec struct {
	Waypoints int     `yaml:"waypoints"`
	Radius    float64 `yaml:"radius"`
	Wait      float64 `yaml:"wait"`
	Block     bool    `yaml:"block"`
}

type AttractStepSpec struct {
	Mode      string  `yaml:"mode"`
	Waypoints int     `yaml:"waypoints"`
	Radius    float64 `yaml:"radius"`
	Wait      float64 `yaml:"wait"`
	Block     bool    `yaml:"block"`
}

type WaitUntilStepSpec struct {
	Expr   string `yaml:"expr"`
	Script string `yaml:"script"`
}
