package entity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/levels"
)

// EnemySpawner creates enemies on behalf of the level loader so they end up
// owned by whoever manages enemies.
type EnemySpawner interface {
	Spawn(w *ecs.World, typ component.EnemyType, pos common.Vec3, wave int) (ecs.Entity, error)
}

type buildContext struct {
	world     *ecs.World
	collision *collision.World
	enemies   EnemySpawner
}

type levelEntityFn func(ctx *buildContext, spec levels.Entity) error

var levelEntityRegistry = map[string]levelEntityFn{
	"vehicle": buildLevelVehicle,
	"enemy":   buildLevelEnemy,
}

// NewProp creates an editable level volume. An empty ID gets a fresh uuid.
func NewProp(w *ecs.World, cw *collision.World, spec levels.PropSpec) (ecs.Entity, error) {
	role, ok := collision.ParseRole(spec.Role)
	if !ok || role == collision.RoleEnemy {
		return 0, fmt.Errorf("prop: unknown role %q", spec.Role)
	}
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}

	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.PropComponent.Kind(), &component.Prop{
		ID:   spec.ID,
		Role: role.String(),
		Size: spec.Size,
	}); err != nil {
		return 0, fmt.Errorf("prop: add prop: %w", err)
	}
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{Position: spec.Position()}); err != nil {
		return 0, fmt.Errorf("prop: add transform: %w", err)
	}
	model := spec.Model
	if model == "" {
		model = role.String()
	}
	if err := ecs.Add(w, entity, component.VisualComponent.Kind(), &component.Visual{Model: model}); err != nil {
		return 0, fmt.Errorf("prop: add visual: %w", err)
	}

	cw.Add(entity, role, spec.Box())
	return entity, nil
}

// PropSpecOf reads a prop entity back into layout form.
func PropSpecOf(w *ecs.World, e ecs.Entity) (levels.PropSpec, bool) {
	prop, ok := ecs.Get(w, e, component.PropComponent.Kind())
	if !ok {
		return levels.PropSpec{}, false
	}
	spec := levels.PropSpec{ID: prop.ID, Role: prop.Role, Size: prop.Size}
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		spec.X, spec.Y, spec.Z = tr.Position.X, tr.Position.Y, tr.Position.Z
	}
	if vis, ok := ecs.Get(w, e, component.VisualComponent.Kind()); ok && vis.Model != prop.Role {
		spec.Model = vis.Model
	}
	return spec, true
}

// BuildLevel creates every prop and pre-placed entity of a layout. A bad
// element is reported and skipped; the rest of the level still loads.
func BuildLevel(w *ecs.World, cw *collision.World, lvl *levels.Layout, enemies EnemySpawner) error {
	if lvl == nil {
		return nil
	}
	ctx := &buildContext{world: w, collision: cw, enemies: enemies}

	var errs []error
	for _, p := range lvl.Props {
		if _, err := NewProp(w, cw, p); err != nil {
			errs = append(errs, fmt.Errorf("level %s: prop %s: %w", lvl.Name, p.ID, err))
		}
	}
	for _, spec := range lvl.Entities {
		fn, ok := levelEntityRegistry[spec.Type]
		if !ok {
			errs = append(errs, fmt.Errorf("level %s: unknown entity type %q", lvl.Name, spec.Type))
			continue
		}
		if err := fn(ctx, spec); err != nil {
			errs = append(errs, fmt.Errorf("level %s: %s %s: %w", lvl.Name, spec.Type, spec.Name, err))
		}
	}
	return errors.Join(errs...)
}

func buildLevelVehicle(ctx *buildContext, spec levels.Entity) error {
	_, err := NewVehicle(ctx.world, ctx.collision, spec.Name, common.V(spec.X, spec.Y, spec.Z), spec.Yaw, spec.Size)
	return err
}

func buildLevelEnemy(ctx *buildContext, spec levels.Entity) error {
	if ctx.enemies == nil {
		return errors.New("no enemy spawner")
	}
	typ, ok := component.ParseEnemyType(spec.Name)
	if !ok {
		return fmt.Errorf("unknown enemy type %q", spec.Name)
	}
	_, err := ctx.enemies.Spawn(ctx.world, typ, common.V(spec.X, spec.Y, spec.Z), 0)
	return err
}
