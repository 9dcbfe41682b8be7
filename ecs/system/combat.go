package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
)

// CombatSystem owns weapon timers and resolves hitscan shots from the camera.
type CombatSystem struct {
	shared *Shared

	// vehicleGun is the weapon used while driving. It has no ammo pool.
	vehicleGun component.WeaponState
	gunLoaded  bool
}

func NewCombatSystem(shared *Shared) *CombatSystem {
	return &CombatSystem{shared: shared}
}

func (s *CombatSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	pe, p, _, ok := player(w)
	if !ok {
		return
	}
	weapons, ok := ecs.Get(w, pe, component.WeaponsComponent.Kind())
	if !ok {
		return
	}
	dt := w.Delta()
	s.tickTimers(weapons, dt)
	if !s.gunLoaded {
		s.loadVehicleGun()
	}
	if s.vehicleGun.Cooldown > 0 {
		s.vehicleGun.Cooldown -= dt
	}

	if p.Dead {
		return
	}
	in, ok := ecs.Get(w, pe, component.InputComponent.Kind())
	if !ok {
		return
	}

	if ecs.Has(w, pe, component.VehicleSessionComponent.Kind()) {
		if in.Fire {
			s.Fire(w, pe, &s.vehicleGun)
		}
		return
	}
	if weapons.Hidden || p.EditMode {
		return
	}

	if in.SwitchPressed {
		Switch(weapons)
	}
	if in.ReloadPressed {
		if StartReload(weapons.Active()) {
			s.shared.Ports.Audio.PlayReload()
		}
	}
	if in.Fire {
		s.Fire(w, pe, weapons.Active())
	}
}

func (s *CombatSystem) loadVehicleGun() {
	spec, ok := s.shared.Tuning.Weapons.Weapon(s.shared.Tuning.Weapons.Vehicle)
	if !ok {
		return
	}
	s.vehicleGun = entity.WeaponState(spec)
	s.vehicleGun.Unlimited = true
	s.gunLoaded = true
}

// ReloadTuning picks up a changed vehicle gun spec on the next update.
func (s *CombatSystem) ReloadTuning() {
	if s != nil {
		s.gunLoaded = false
	}
}

// tickTimers runs every slot's cooldown and the active slot's reload.
func (s *CombatSystem) tickTimers(weapons *component.Weapons, dt float64) {
	for i := 0; i < weapons.Count; i++ {
		ws := &weapons.Slots[i]
		if ws.Cooldown > 0 {
			ws.Cooldown -= dt
		}
	}
	active := weapons.Active()
	if active == nil || active.Reload <= 0 {
		return
	}
	active.Reload -= dt
	if active.Reload <= timeEpsilon {
		active.Reload = 0
		active.Ammo = active.MaxAmmo
	}
}

// Switch cycles to the other equipped weapon. Each slot keeps its own ammo;
// a reload in progress is cancelled.
func Switch(weapons *component.Weapons) bool {
	if weapons == nil || weapons.Count < 2 {
		return false
	}
	if active := weapons.Active(); active != nil {
		active.Reload = 0
	}
	weapons.Current = (weapons.Current + 1) % weapons.Count
	return true
}

// StartReload begins a reload unless one is running or the clip is full.
func StartReload(ws *component.WeaponState) bool {
	if ws == nil || ws.Unlimited || ws.Reloading() || ws.Ammo >= ws.MaxAmmo {
		return false
	}
	ws.Reload = ws.ReloadTime
	return true
}

// Fire attempts one shot with ws. Cooldown and reload silently block; an
// empty clip plays the empty cue and spends the cooldown without touching ammo.
func (s *CombatSystem) Fire(w *ecs.World, shooter ecs.Entity, ws *component.WeaponState) bool {
	if ws == nil || ws.Cooldown > timeEpsilon || ws.Reloading() {
		return false
	}
	interval := 1 / ws.FireRate
	if !ws.Unlimited && ws.Ammo <= 0 {
		ws.Cooldown = interval
		s.shared.Ports.Audio.PlayEmpty()
		return false
	}
	if !ws.Unlimited {
		ws.Ammo--
	}
	ws.Cooldown = interval
	s.shared.Ports.Audio.PlayShot(ws.Name)
	s.resolve(w, shooter, ws)
	return true
}

// resolve casts the hitscan ray against level volumes and live enemy hit
// boxes together and applies the nearest result.
func (s *CombatSystem) resolve(w *ecs.World, shooter ecs.Entity, ws *component.WeaponState) {
	cam, ok := ecs.Get(w, shooter, component.CameraComponent.Kind())
	if !ok {
		return
	}
	var ignore []ecs.Entity
	if v := drivenVehicle(w, shooter); v != 0 {
		ignore = append(ignore, v)
	}

	shot := Shot{Weapon: ws.Name}
	hit, ok := s.shared.Collision.Raycast(cam.Position, cam.Forward(), ws.Range, collision.RoleAll, ignore...)
	if ok {
		shot.Hit = true
		shot.Point = hit.Point
		ttl := s.shared.Tuning.Weapons.MarkerTTL
		if hit.Role == collision.RoleEnemy && ecs.Has(w, hit.Entity, component.EnemyComponent.Kind()) {
			shot.Enemy = hit.Entity
			s.shared.Ports.Audio.PlayEnemyHit()
			s.shared.Enemies.TakeDamage(w, hit.Entity, ws.Damage)
			if _, err := entity.NewHitMarker(w, hit.Point, true, ttl); err != nil {
				log.Warn("hit marker", "err", err)
			}
		} else if _, err := entity.NewHitMarker(w, hit.Point, false, ttl); err != nil {
			log.Warn("hit marker", "err", err)
		}
	}
	w.Events().Push(ecs.Event{Type: EventShot, Data: shot})
}
