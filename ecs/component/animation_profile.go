package component

// WeaponAnimations lists what the animator offers for one weapon profile.
type WeaponAnimations struct {
	Hits          int
	DeathClips    []float64
	HitCooldown   float64
	HitConditions AnimState
	Stunned       bool
	Warning       bool
}

// AnimationProfile describes the agent's animator content.
type AnimationProfile struct {
	Idles         int
	NonCombatHits int
	Emotes        []int
	Type1         WeaponAnimations
	Type2         WeaponAnimations
}

// For returns the weapon animations for profile w.
func (p *AnimationProfile) For(w WeaponProfile) *WeaponAnimations {
	if w == WeaponType2 {
		return &p.Type2
	}
	return &p.Type1
}

// HasEmote reports whether id is one of the agent's emotes.
func (p *AnimationProfile) HasEmote(id int) bool {
	for _, e := range p.Emotes {
		if e == id {
			return true
		}
	}
	return false
}

var AnimationProfileComponent = NewComponent[AnimationProfile]()
