package system

import (
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

// HUDSystem pushes the per-tick stats to the HUD sink. It runs last.
type HUDSystem struct {
	shared *Shared
	last   HUDStats
}

func NewHUDSystem(shared *Shared) *HUDSystem {
	return &HUDSystem{shared: shared}
}

func (s *HUDSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	s.last = Stats(w, s.shared)
	s.shared.Ports.HUD.Show(s.last)
}

// Last is the most recent snapshot sent to the HUD.
func (s *HUDSystem) Last() HUDStats {
	if s == nil {
		return HUDStats{}
	}
	return s.last
}

// Stats collects the HUD view of the world.
func Stats(w *ecs.World, shared *Shared) HUDStats {
	var st HUDStats
	pe, p, _, ok := player(w)
	if ok {
		st.Health = p.Health
		st.MaxHealth = p.MaxHealth
		st.Armor = p.Armor
		st.Money = p.Money
		st.Kills = p.Kills
		st.EditMode = p.EditMode
		st.Ghost = p.Ghost
		st.Holding = p.Held != 0
		st.GameOver = p.Dead

		if session, ok := ecs.Get(w, pe, component.VehicleSessionComponent.Kind()); ok {
			st.Driving = true
			st.Speed = session.Speed
		}
		if weapons, ok := ecs.Get(w, pe, component.WeaponsComponent.Kind()); ok && !weapons.Hidden {
			if ws := weapons.Active(); ws != nil {
				st.Weapon = ws.Name
				st.Ammo = ws.Ammo
				st.MaxAmmo = ws.MaxAmmo
				st.Unlimited = ws.Unlimited
				st.Reloading = ws.Reloading()
				st.ReloadProgress = ws.ReloadProgress()
			}
		}
	}
	if wave := director(w); wave != nil {
		st.Wave = wave.Number
		st.WaveKilled = wave.Killed
		st.WaveTotal = wave.Total
	}
	if shared != nil {
		st.Enemies = shared.Enemies.Alive(w)
	}
	return st
}
