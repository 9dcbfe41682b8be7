package system

import (
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

// Visuals maps entities to the scene handles drawn for them. The lookup goes
// entity to handle only; the scene never points back into the simulation.
type Visuals struct {
	scene   Scene
	assets  AssetProvider
	handles map[ecs.Entity]VisualHandle
}

func NewVisuals(scene Scene, assets AssetProvider) *Visuals {
	if scene == nil {
		scene = nopScene{}
	}
	if assets == nil {
		assets = nopAssets{}
	}
	return &Visuals{scene: scene, assets: assets, handles: make(map[ecs.Entity]VisualHandle)}
}

// Attach resolves model and adds it to the scene. An asset that is not ready
// is drawn as a placeholder of the given size.
func (v *Visuals) Attach(e ecs.Entity, model string, size common.Vec3) {
	if v == nil {
		return
	}
	v.Release(e)
	template, ok := v.assets.Resolve(model)
	if !ok || template == nil {
		template = Placeholder{Model: model, Size: size}
	}
	if h := v.scene.AddVisual(e, template); h != nil {
		v.handles[e] = h
	}
}

func (v *Visuals) Release(e ecs.Entity) {
	if v == nil {
		return
	}
	h, ok := v.handles[e]
	if !ok {
		return
	}
	delete(v.handles, e)
	v.scene.RemoveVisual(h)
}

func (v *Visuals) Has(e ecs.Entity) bool {
	if v == nil {
		return false
	}
	_, ok := v.handles[e]
	return ok
}

func (v *Visuals) Len() int {
	if v == nil {
		return 0
	}
	return len(v.handles)
}

// AttachEntity draws e from its Visual component, sized by its collision
// volume when it has one.
func (v *Visuals) AttachEntity(w *ecs.World, cw *collision.World, e ecs.Entity) {
	vis, ok := ecs.Get(w, e, component.VisualComponent.Kind())
	if !ok {
		return
	}
	size := common.V(1, 1, 1)
	if box, _, ok := cw.Volume(e); ok {
		size = box.Size()
	}
	v.Attach(e, vis.Model, size)
}

// AttachAll draws every entity with a Visual component that is not drawn yet.
func (v *Visuals) AttachAll(w *ecs.World, cw *collision.World) {
	ecs.ForEach(w, component.VisualComponent.Kind(), func(e ecs.Entity, _ *component.Visual) {
		if !v.Has(e) {
			v.AttachEntity(w, cw, e)
		}
	})
}
