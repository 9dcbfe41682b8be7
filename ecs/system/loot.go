package system

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
	"github.com/milk9111/cityfps/prefabs"
)

// LootManager owns every drop from spawn to pickup.
type LootManager struct {
	shared *Shared
}

func NewLootManager(shared *Shared) *LootManager {
	return &LootManager{shared: shared}
}

// Roll maps one uniform draw in [0,1) onto the drop bands, checked in order
// potion, hat, coin.
func Roll(spec prefabs.LootSpec, r float64) component.LootKind {
	switch {
	case r < spec.PotionUpper:
		return component.LootPotion
	case r < spec.HatUpper:
		return component.LootHat
	case r < spec.CoinUpper:
		return component.LootCoin
	}
	return component.LootNone
}

// Drop rolls once and spawns the result at pos.
func (m *LootManager) Drop(w *ecs.World, pos common.Vec3) (ecs.Entity, component.LootKind) {
	kind := Roll(m.shared.Tuning.Loot, m.shared.Rand.Float64())
	if kind == component.LootNone {
		return 0, kind
	}
	return m.Spawn(w, kind, pos), kind
}

func (m *LootManager) Spawn(w *ecs.World, kind component.LootKind, pos common.Vec3) ecs.Entity {
	e, err := entity.NewLoot(w, kind, pos, m.shared.Tuning.Loot, w.Elapsed())
	if err != nil {
		log.Warn("loot spawn", "kind", kind, "err", err)
		return 0
	}
	m.shared.Visuals.Attach(e, kind.String(), common.V(0.5, 0.5, 0.5))
	return e
}

// Apply gives the player the effect of one drop.
func Apply(spec prefabs.LootSpec, p *component.Player, kind component.LootKind) {
	if p == nil {
		return
	}
	switch kind {
	case component.LootCoin:
		p.Money += spec.CoinValue
	case component.LootHat:
		p.Armor += ArmorGain(spec, p.Armor)
	case component.LootPotion:
		p.Health = math.Min(p.MaxHealth, p.Health+spec.PotionHeal)
	}
}

// ArmorGain is the diminishing return of one hat: gain/(100+armor).
func ArmorGain(spec prefabs.LootSpec, armor float64) float64 {
	return spec.ArmorGain / (100 + armor)
}

func (m *LootManager) Retire(w *ecs.World, e ecs.Entity) {
	m.shared.Visuals.Release(e)
	ecs.DestroyEntity(w, e)
}

// LootSystem drops loot for this tick's kills, animates drops and handles
// pickup.
type LootSystem struct {
	shared *Shared
}

func NewLootSystem(shared *Shared) *LootSystem {
	return &LootSystem{shared: shared}
}

func (s *LootSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	manager := s.shared.Loot
	w.Events().Each(EventEnemyKilled, func(ev ecs.Event) {
		killed, ok := ev.Data.(EnemyKilled)
		if !ok {
			return
		}
		manager.Drop(w, killed.Position)
	})

	spec := s.shared.Tuning.Loot
	dt := w.Delta()
	now := w.Elapsed()

	_, p, ptr, havePlayer := player(w)
	if havePlayer && p.Dead {
		havePlayer = false
	}

	ecs.ForEach2(w, component.LootComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, loot *component.Loot, tr *component.Transform) {
		if !loot.Active {
			return
		}
		loot.Phase = (now - loot.SpawnTime) * spec.BobSpeed
		loot.Spin += spec.SpinSpeed * dt
		tr.Position.Y = loot.BaseY + math.Sin(loot.Phase)*spec.BobAmplitude
		tr.Yaw = loot.Spin

		if !havePlayer || ptr.Position.FlatDist(tr.Position) >= spec.PickupRadius {
			return
		}
		loot.Active = false
		Apply(spec, p, loot.Kind)
		s.shared.Ports.Audio.PlayPickup(loot.Kind)
		log.Debug("loot picked up", "kind", loot.Kind, "money", p.Money, "armor", p.Armor, "health", p.Health)
		manager.Retire(w, e)
	})
}
