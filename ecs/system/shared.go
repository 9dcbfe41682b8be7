package system

import (
	"math/rand"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/prefabs"
)

// Shared is the state every system of one simulation works against. It is
// passed to each system explicitly; nothing here is global.
type Shared struct {
	Collision *collision.World
	Tuning    *prefabs.Tuning
	Ports     Ports
	Rand      *rand.Rand

	Visuals *Visuals
	Enemies *EnemyManager
	Loot    *LootManager
}

func NewShared(cw *collision.World, tuning *prefabs.Tuning, ports Ports, rng *rand.Rand) *Shared {
	if cw == nil {
		cw = collision.NewWorld()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &Shared{
		Collision: cw,
		Tuning:    tuning,
		Ports:     ports.WithDefaults(),
		Rand:      rng,
	}
	s.Visuals = NewVisuals(s.Ports.Scene, s.Ports.Assets)
	s.Enemies = NewEnemyManager(s)
	s.Loot = NewLootManager(s)
	return s
}

// player returns the player entity and its core components.
func player(w *ecs.World) (ecs.Entity, *component.Player, *component.Transform, bool) {
	e, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return 0, nil, nil, false
	}
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return 0, nil, nil, false
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, nil, nil, false
	}
	return e, p, tr, true
}

// drivenVehicle is the vehicle the player is in, or 0.
func drivenVehicle(w *ecs.World, playerEnt ecs.Entity) ecs.Entity {
	session, ok := ecs.Get(w, playerEnt, component.VehicleSessionComponent.Kind())
	if !ok {
		return 0
	}
	return ecs.Entity(session.Vehicle)
}
