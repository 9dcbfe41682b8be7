package ecs

import (
	"github.com/milk9111/cityfps/ecs/component"
)

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// World owns entities, their components and the per-tick clock.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*sparseSet
	events   EventQueue

	delta   float64
	elapsed float64
	tick    uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: map[component.ComponentID]*sparseSet{}}
}

func (w *World) store(id component.ComponentID, create bool) *sparseSet {
	if w == nil {
		return nil
	}
	s, ok := w.stores[id]
	if !ok && create {
		if w.stores == nil {
			w.stores = map[component.ComponentID]*sparseSet{}
		}
		s = &sparseSet{}
		w.stores[id] = s
	}
	return s
}

// AddComponent stores v for e, replacing any previous value of that kind.
func (w *World) AddComponent(e Entity, id component.ComponentID, v any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if v == nil {
		return component.ErrNilComponent
	}
	w.store(id, true).set(e, v)
	return nil
}

// RemoveComponent deletes the component of the given kind from e.
func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	return w.store(id, false).remove(e)
}

// GetComponent returns the stored value for e.
func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	return w.store(id, false).get(e)
}

// HasComponent reports whether e carries the component kind.
func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(id, false).has(e)
}

// Query returns live entities that carry every listed kind.
func (w *World) Query(ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	base := w.store(ids[0], false)
	if base == nil {
		return nil
	}
	rest := make([]*sparseSet, 0, len(ids)-1)
	for _, id := range ids[1:] {
		s := w.store(id, false)
		if s == nil {
			return nil
		}
		rest = append(rest, s)
	}
	var out []Entity
	for _, e := range base.entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		match := true
		for _, s := range rest {
			if !s.has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first live entity carrying the kind.
func (w *World) First(id component.ComponentID) (Entity, bool) {
	for _, e := range w.store(id, false).entities() {
		if w.entities.isAlive(e) {
			return e, true
		}
	}
	return 0, false
}

// Advance moves the world clock forward by dt seconds.
func (w *World) Advance(dt float64) {
	if w == nil {
		return
	}
	w.delta = dt
	w.elapsed += dt
	w.tick++
}

// Delta is the time step of the current tick in seconds.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

// Elapsed is the simulated time since the world was created.
func (w *World) Elapsed() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// Tick is the number of Advance calls so far.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// FlushEvents drops every event queued so far. Called once at the end of a tick.
func (w *World) FlushEvents() {
	if w == nil {
		return
	}
	w.events.flush()
}
