package entity

import (
	"fmt"

	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

// NewHitMarker leaves a short-lived marker where a shot landed.
func NewHitMarker(w *ecs.World, point common.Vec3, enemy bool, ttl float64) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.HitMarkerComponent.Kind(), &component.HitMarker{Point: point, Enemy: enemy}); err != nil {
		return 0, fmt.Errorf("marker: add marker: %w", err)
	}
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{Position: point}); err != nil {
		return 0, fmt.Errorf("marker: add transform: %w", err)
	}
	if err := ecs.Add(w, entity, component.TTLComponent.Kind(), &component.TTL{Seconds: ttl}); err != nil {
		return 0, fmt.Errorf("marker: add ttl: %w", err)
	}
	return entity, nil
}
