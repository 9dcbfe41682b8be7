package component

// WeaponState is one equipped weapon. Stats are copied from the weapon spec
// at equip time; Ammo, Cooldown and Reload are live.
type WeaponState struct {
	Name       string
	MaxAmmo    int
	Damage     float64
	FireRate   float64
	ReloadTime float64
	Range      float64
	Unlimited  bool

	Ammo     int
	Cooldown float64
	Reload   float64
}

// Reloading is true while the reload timer blocks firing.
func (ws *WeaponState) Reloading() bool {
	return ws != nil && ws.Reload > 0
}

// ReloadProgress is 0 at reload start and 1 when done, for animation.
func (ws *WeaponState) ReloadProgress() float64 {
	if ws == nil || ws.Reload <= 0 || ws.ReloadTime <= 0 {
		return 1
	}
	return 1 - ws.Reload/ws.ReloadTime
}

type Weapons struct {
	Slots   [2]WeaponState
	Count   int
	Current int
	Hidden  bool
}

// Active returns the selected weapon, or nil when nothing is equipped.
func (w *Weapons) Active() *WeaponState {
	if w == nil || w.Count == 0 || w.Current < 0 || w.Current >= w.Count {
		return nil
	}
	return &w.Slots[w.Current]
}

var WeaponsComponent = NewComponent[Weapons]()
