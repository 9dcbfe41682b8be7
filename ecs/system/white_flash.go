package system

import (
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

// WhiteFlashSystem expires damage flashes. Flashes only affect drawing.
type WhiteFlashSystem struct{}

func NewWhiteFlashSystem() *WhiteFlashSystem {
	return &WhiteFlashSystem{}
}

func (s *WhiteFlashSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach(w, component.WhiteFlashComponent.Kind(), func(e ecs.Entity, f *component.WhiteFlash) {
		f.Remaining -= dt
		if f.Remaining <= 0 {
			ecs.Remove(w, e, component.WhiteFlashComponent.Kind())
		}
	})
}
