package component

// WeaponProfile selects which animation set and hit rules are active.
type WeaponProfile int

const (
	WeaponType1 WeaponProfile = 1
	WeaponType2 WeaponProfile = 2
)

// Combat mirrors the combat layer's state for this agent.
type Combat struct {
	Engaged    bool
	Obstructed bool
	Weapon     WeaponProfile
}

var CombatComponent = NewComponent[Combat]()
