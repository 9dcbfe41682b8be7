package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
	"github.com/milk9111/cityfps/levels"
)

const propRoles = collision.RoleStatic | collision.RoleMovable

// EditSystem is live level editing: toggle edit mode, grab a prop under the
// crosshair, carry it in front of the camera, drop it or delete it.
type EditSystem struct {
	shared *Shared
}

func NewEditSystem(shared *Shared) *EditSystem {
	return &EditSystem{shared: shared}
}

func (s *EditSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	pe, p, _, ok := player(w)
	if !ok || p.Dead {
		return
	}
	in, ok := ecs.Get(w, pe, component.InputComponent.Kind())
	if !ok {
		in = &component.Input{}
	}

	if in.EditPressed {
		p.EditMode = !p.EditMode
		if !p.EditMode {
			p.Held = 0
		}
		log.Info("edit mode", "enabled", p.EditMode)
	}
	if !p.EditMode {
		return
	}
	cam, ok := ecs.Get(w, pe, component.CameraComponent.Kind())
	if !ok {
		return
	}

	held := ecs.Entity(p.Held)
	if held != 0 && !ecs.IsAlive(w, held) {
		p.Held, held = 0, 0
	}

	switch {
	case in.DeletePressed && held != 0:
		s.RemoveProp(w, held)
		p.Held = 0
		return
	case in.GrabPressed && held != 0:
		p.Held = 0
		log.Debug("prop dropped", "entity", held)
		return
	case in.GrabPressed:
		hit, ok := s.shared.Collision.Raycast(cam.Position, cam.Forward(), s.shared.Tuning.Edit.PickRange, propRoles)
		if ok && ecs.Has(w, hit.Entity, component.PropComponent.Kind()) {
			p.Held = uint64(hit.Entity)
			held = hit.Entity
			log.Debug("prop grabbed", "entity", held)
		}
	}

	if held != 0 {
		s.carry(w, held, cam)
	}
}

// carry keeps the held prop centered a fixed distance along the view ray.
func (s *EditSystem) carry(w *ecs.World, e ecs.Entity, cam *component.Camera) {
	prop, ok := ecs.Get(w, e, component.PropComponent.Kind())
	if !ok {
		return
	}
	center := cam.Position.Add(cam.Forward().Scale(s.shared.Tuning.Edit.HoldDistance))
	base := center.Sub(common.V(0, prop.Size[1]/2, 0))
	s.MoveProp(w, e, base)
}

// SpawnProp adds a prop to the live level.
func (s *EditSystem) SpawnProp(w *ecs.World, spec levels.PropSpec) (ecs.Entity, error) {
	e, err := entity.NewProp(w, s.shared.Collision, spec)
	if err != nil {
		return 0, err
	}
	s.shared.Visuals.AttachEntity(w, s.shared.Collision, e)
	return e, nil
}

// MoveProp places the bottom center of a prop at base.
func (s *EditSystem) MoveProp(w *ecs.World, e ecs.Entity, base common.Vec3) bool {
	prop, ok := ecs.Get(w, e, component.PropComponent.Kind())
	if !ok {
		return false
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	tr.Position = base
	s.shared.Collision.Move(e, common.BoxAt(base, prop.Size[0]/2, prop.Size[1], prop.Size[2]/2))
	return true
}

func (s *EditSystem) RemoveProp(w *ecs.World, e ecs.Entity) bool {
	if !ecs.Has(w, e, component.PropComponent.Kind()) {
		return false
	}
	s.shared.Visuals.Release(e)
	s.shared.Collision.Remove(e)
	log.Debug("prop removed", "entity", e)
	return ecs.DestroyEntity(w, e)
}

// FindProp looks a prop up by its layout id.
func FindProp(w *ecs.World, id string) (ecs.Entity, bool) {
	var found ecs.Entity
	ecs.ForEach(w, component.PropComponent.Kind(), func(e ecs.Entity, p *component.Prop) {
		if found == 0 && p.ID == id {
			found = e
		}
	})
	return found, found != 0
}

// Snapshot exports the current props as a layout document.
func Snapshot(w *ecs.World, name string) *levels.Layout {
	lvl := &levels.Layout{Name: name}
	if _, p, _, ok := player(w); ok {
		o := p.SpawnOrigin
		lvl.PlayerSpawn = [3]float64{o.X, o.Y, o.Z}
	}
	for _, e := range w.Query(component.PropComponent.Kind().ID()) {
		if spec, ok := entity.PropSpecOf(w, e); ok {
			lvl.Props = append(lvl.Props, spec)
		}
	}
	ecs.ForEach2(w, component.VehicleComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, v *component.Vehicle, tr *component.Transform) {
		lvl.Entities = append(lvl.Entities, levels.Entity{
			Type: "vehicle",
			Name: v.Name,
			X:    tr.Position.X,
			Y:    tr.Position.Y,
			Z:    tr.Position.Z,
			Yaw:  tr.Yaw,
			Size: [3]float64{v.HalfSize.X * 2, v.HalfSize.Y * 2, v.HalfSize.Z * 2},
		})
	})
	return lvl
}

// HeldProp returns the layout form of the prop being carried.
func HeldProp(w *ecs.World) (levels.PropSpec, bool) {
	_, p, _, ok := player(w)
	if !ok || p.Held == 0 {
		return levels.PropSpec{}, false
	}
	return entity.PropSpecOf(w, ecs.Entity(p.Held))
}
