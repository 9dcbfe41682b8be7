package system

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/levels"
	"github.com/milk9111/cityfps/prefabs"
)

var ErrScript = errors.New("script")

// scriptModules are the stdlib modules a script may import. None of them
// reach the filesystem or the process.
var scriptModules = []string{"math", "text", "fmt", "rand"}

// ScriptTimeout bounds one console run so a runaway loop cannot stall a tick.
var ScriptTimeout = 250 * time.Millisecond

// EditScripts is the level-edit console. Scripts see a small set of builtin
// functions that act on the live world:
//
//	spawn_prop({role, x, y, z, size, model, id}) -> id
//	move_prop(id, x, y, z) -> bool
//	remove_prop(id) -> bool
//	spawn_enemy(type, x, z) -> bool
//	props() -> [{id, role, x, y, z, size}]
//	player_position() -> {x, y, z}
type EditScripts struct {
	shared *Shared
	edit   *EditSystem
}

func NewEditScripts(shared *Shared, edit *EditSystem) *EditScripts {
	if edit == nil {
		edit = NewEditSystem(shared)
	}
	return &EditScripts{shared: shared, edit: edit}
}

// Run compiles and executes src against w. Compile and runtime errors are
// returned wrapped in ErrScript; nothing panics out.
func (es *EditScripts) Run(w *ecs.World, src string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrScript, r)
		}
	}()

	script := tengo.NewScript([]byte(src))
	script.SetImports(stdlib.GetModuleMap(scriptModules...))
	for name, fn := range es.builtins(w) {
		if err := script.Add(name, fn); err != nil {
			return fmt.Errorf("%w: add %s: %v", ErrScript, name, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("%w: compile: %v", ErrScript, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), ScriptTimeout)
	defer cancel()
	if err := compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("%w: run: %v", ErrScript, err)
	}
	return nil
}

// RunFile runs one of the bundled console scripts.
func (es *EditScripts) RunFile(w *ecs.World, name string) error {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return fmt.Errorf("%w: load %s: %v", ErrScript, name, err)
	}
	log.Info("running edit script", "name", name)
	return es.Run(w, string(src))
}

func (es *EditScripts) builtins(w *ecs.World) map[string]*tengo.UserFunction {
	return map[string]*tengo.UserFunction{
		"spawn_prop": {Name: "spawn_prop", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			spec, err := prefabs.DecodeComponentSpec[levels.PropSpec](tengo.ToInterface(args[0]))
			if err != nil {
				return nil, fmt.Errorf("spawn_prop: %w", err)
			}
			if spec.Size == ([3]float64{}) {
				spec.Size = [3]float64{1, 1, 1}
			}
			e, err := es.edit.SpawnProp(w, spec)
			if err != nil {
				return nil, fmt.Errorf("spawn_prop: %w", err)
			}
			prop, _ := ecs.Get(w, e, component.PropComponent.Kind())
			return &tengo.String{Value: prop.ID}, nil
		}},
		"move_prop": {Name: "move_prop", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 4 {
				return nil, tengo.ErrWrongNumArguments
			}
			id, _ := tengo.ToString(args[0])
			pos, err := vecArgs(args[1:])
			if err != nil {
				return nil, fmt.Errorf("move_prop: %w", err)
			}
			e, ok := FindProp(w, id)
			if !ok || !es.edit.MoveProp(w, e, pos) {
				return tengo.FalseValue, nil
			}
			return tengo.TrueValue, nil
		}},
		"remove_prop": {Name: "remove_prop", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			id, _ := tengo.ToString(args[0])
			e, ok := FindProp(w, id)
			if !ok {
				return tengo.FalseValue, nil
			}
			if _, p, _, ok := player(w); ok && p.Held == uint64(e) {
				p.Held = 0
			}
			if !es.edit.RemoveProp(w, e) {
				return tengo.FalseValue, nil
			}
			return tengo.TrueValue, nil
		}},
		"spawn_enemy": {Name: "spawn_enemy", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 3 {
				return nil, tengo.ErrWrongNumArguments
			}
			name, _ := tengo.ToString(args[0])
			typ, ok := component.ParseEnemyType(strings.ToLower(strings.TrimSpace(name)))
			if !ok {
				return nil, fmt.Errorf("spawn_enemy: unknown type %q", name)
			}
			x, okX := tengo.ToFloat64(args[1])
			z, okZ := tengo.ToFloat64(args[2])
			if !okX || !okZ {
				return nil, errors.New("spawn_enemy: x and z must be numbers")
			}
			if _, err := es.shared.Enemies.Spawn(w, typ, common.V(x, 0, z), 0); err != nil {
				return nil, fmt.Errorf("spawn_enemy: %w", err)
			}
			return tengo.TrueValue, nil
		}},
		"props": {Name: "props", Value: func(args ...tengo.Object) (tengo.Object, error) {
			out := &tengo.Array{}
			for _, p := range Snapshot(w, "").Props {
				out.Value = append(out.Value, &tengo.ImmutableMap{Value: map[string]tengo.Object{
					"id":   &tengo.String{Value: p.ID},
					"role": &tengo.String{Value: p.Role},
					"x":    &tengo.Float{Value: p.X},
					"y":    &tengo.Float{Value: p.Y},
					"z":    &tengo.Float{Value: p.Z},
					"size": &tengo.Array{Value: []tengo.Object{
						&tengo.Float{Value: p.Size[0]},
						&tengo.Float{Value: p.Size[1]},
						&tengo.Float{Value: p.Size[2]},
					}},
				}})
			}
			return out, nil
		}},
		"player_position": {Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
			var pos common.Vec3
			if _, _, tr, ok := player(w); ok {
				pos = tr.Position
			}
			return &tengo.ImmutableMap{Value: map[string]tengo.Object{
				"x": &tengo.Float{Value: pos.X},
				"y": &tengo.Float{Value: pos.Y},
				"z": &tengo.Float{Value: pos.Z},
			}}, nil
		}},
	}
}

func vecArgs(args []tengo.Object) (common.Vec3, error) {
	var v [3]float64
	for i := range v {
		f, ok := tengo.ToFloat64(args[i])
		if !ok {
			return common.Vec3{}, fmt.Errorf("argument %d is not a number", i+2)
		}
		v[i] = f
	}
	return common.V(v[0], v[1], v[2]), nil
}
