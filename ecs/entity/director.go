package entity

import (
	"fmt"

	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

// NewDirector creates the wave director with no wave started yet. The first
// wave begins on the first tick.
func NewDirector(w *ecs.World, difficulty int) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.DirectorTagComponent.Kind(), &component.DirectorTag{}); err != nil {
		return 0, fmt.Errorf("director: add tag: %w", err)
	}
	if err := ecs.Add(w, entity, component.WaveComponent.Kind(), &component.Wave{Difficulty: difficulty}); err != nil {
		return 0, fmt.Errorf("director: add wave: %w", err)
	}
	return entity, nil
}
