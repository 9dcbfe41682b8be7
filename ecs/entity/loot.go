package entity

import (
	"fmt"

	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/prefabs"
)

func NewLoot(w *ecs.World, kind component.LootKind, pos common.Vec3, spec prefabs.LootSpec, now float64) (ecs.Entity, error) {
	if kind == component.LootNone {
		return 0, fmt.Errorf("loot: nothing to drop")
	}
	entity := ecs.CreateEntity(w)

	baseY := pos.Y + spec.FloatHeight
	if err := ecs.Add(w, entity, component.LootComponent.Kind(), &component.Loot{
		Kind:      kind,
		BaseY:     baseY,
		SpawnTime: now,
		Active:    true,
	}); err != nil {
		return 0, fmt.Errorf("loot: add loot: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		Position: common.V(pos.X, baseY, pos.Z),
	}); err != nil {
		return 0, fmt.Errorf("loot: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.VisualComponent.Kind(), &component.Visual{Model: kind.String()}); err != nil {
		return 0, fmt.Errorf("loot: add visual: %w", err)
	}
	return entity, nil
}
