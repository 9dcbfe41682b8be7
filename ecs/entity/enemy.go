package entity

import (
	"fmt"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/prefabs"
)

// EnemyStats copies a stat table row into component form.
func EnemyStats(spec prefabs.EnemyTypeSpec) component.EnemyStats {
	return component.EnemyStats{
		Health:         spec.Health,
		Damage:         spec.Damage,
		Speed:          spec.Speed,
		ChaseSpeed:     spec.ChaseSpeed,
		DetectionRange: spec.DetectionRange,
		AttackRate:     spec.AttackRate,
		Aerial:         spec.Aerial,
		Glow:           spec.Glow,
		Model:          spec.Model,
	}
}

// EnemyBox is the hit volume of an enemy standing at pos.
func EnemyBox(pos common.Vec3, spec prefabs.EnemiesSpec) common.Box {
	return common.BoxAt(pos, spec.Radius, spec.Height, spec.Radius)
}

// NewEnemy creates an enemy in Idle with its hit volume registered. The stat
// row is applied here and only here.
func NewEnemy(w *ecs.World, cw *collision.World, spec prefabs.EnemiesSpec, typ component.EnemyType, pos common.Vec3, wave int) (ecs.Entity, error) {
	row, ok := spec.Types[typ.String()]
	if !ok {
		return 0, fmt.Errorf("enemy: no stats for %s", typ)
	}
	stats := EnemyStats(row)

	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.EnemyComponent.Kind(), &component.Enemy{
		Type:      typ,
		Stats:     stats,
		State:     component.StateIdle,
		Health:    stats.Health,
		MaxHealth: stats.Health,
		Origin:    pos,
		IdleTimer: spec.PatrolWait,
		Wave:      wave,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add enemy: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return 0, fmt.Errorf("enemy: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.EnemyPoseComponent.Kind(), &component.EnemyPose{Scale: 1}); err != nil {
		return 0, fmt.Errorf("enemy: add pose: %w", err)
	}

	model := stats.Model
	if model == "" {
		model = typ.String()
	}
	if err := ecs.Add(w, entity, component.VisualComponent.Kind(), &component.Visual{Model: model}); err != nil {
		return 0, fmt.Errorf("enemy: add visual: %w", err)
	}

	cw.Add(entity, collision.RoleEnemy, EnemyBox(pos, spec))
	return entity, nil
}
