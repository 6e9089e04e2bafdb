package component

// Tier is the discrete threat level.
type Tier int

const (
	TierBaseline Tier = iota
	TierElevated
	TierConfirmed
)

func (t Tier) String() string {
	switch t {
	case TierElevated:
		return "elevated"
	case TierConfirmed:
		return "confirmed"
	default:
		return "baseline"
	}
}

// ThreatConfig tunes the threat scalar. Rates are per second.
type ThreatConfig struct {
	AttentionRate  float64
	VelocityFactor float64
	VelocityScale  float64
	DistanceFactor float64

	Falloff      float64
	FalloffDelay float64

	DowngradeDelay   float64
	ExternalCooldown float64

	BaselineLevel  float64
	ElevatedLevel  float64
	ConfirmedLevel float64
}

func DefaultThreatConfig() ThreatConfig {
	return ThreatConfig{
		AttentionRate:    0.1,
		VelocityFactor:   0.3,
		VelocityScale:    0.01,
		DistanceFactor:   0.1,
		Falloff:          0.05,
		FalloffDelay:     3,
		DowngradeDelay:   5,
		ExternalCooldown: 5,
		BaselineLevel:    0.05,
		ElevatedLevel:    0.5,
		ConfirmedLevel:   1,
	}
}

// ThreatReactions maps each tier to the reaction run on entering it.
type ThreatReactions struct {
	Baseline  *Reaction
	Elevated  *Reaction
	Confirmed *Reaction
}

// For returns the reaction for tier.
func (r ThreatReactions) For(t Tier) *Reaction {
	switch t {
	case TierElevated:
		return r.Elevated
	case TierConfirmed:
		return r.Confirmed
	default:
		return r.Baseline
	}
}

// Threat is the per-agent threat state. Amount stays within [0,1].
type Threat struct {
	Config    ThreatConfig
	Reactions ThreatReactions

	Amount float64
	Tier   Tier

	ElevatedLatch  bool
	ConfirmedLatch bool

	FalloffTimer   float64
	DowngradeTimer float64

	// SinceExternalReaction starts at the cooldown so the first invocation
	// is never blocked.
	SinceExternalReaction float64

	WasEngaged bool
}

var ThreatComponent = NewComponent[Threat]()
