package system

import (
	"testing"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/levels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crateSpec(id string, z float64) levels.PropSpec {
	return levels.PropSpec{ID: id, Role: "movable", X: 0, Y: 0, Z: z, Size: [3]float64{1, 2, 1}, Model: "crate"}
}

func TestEditGrabCarryDrop(t *testing.T) {
	f := newFixture(t)
	sys := NewEditSystem(f.shared)
	crate, err := sys.SpawnProp(f.world, crateSpec("crate-1", -6))
	require.NoError(t, err)
	assert.True(t, f.shared.Visuals.Has(crate))

	in := f.input()
	in.EditPressed = true
	f.step(0.1, sys)
	in.EditPressed = false
	p, _ := f.playerState()
	require.True(t, p.EditMode)

	in.GrabPressed = true
	f.step(0.1, sys)
	in.GrabPressed = false
	require.Equal(t, uint64(crate), p.Held)

	held, ok := HeldProp(f.world)
	require.True(t, ok)
	assert.Equal(t, "crate-1", held.ID)
	assert.InDelta(t, -f.shared.Tuning.Edit.HoldDistance, held.Z, 1e-9)

	in.GrabPressed = true
	f.step(0.1, sys)
	in.GrabPressed = false
	assert.Zero(t, p.Held)

	box, role, ok := f.shared.Collision.Volume(crate)
	require.True(t, ok)
	assert.Equal(t, collision.RoleMovable, role)
	assert.InDelta(t, -f.shared.Tuning.Edit.HoldDistance, box.Center().Z, 1e-9)
}

func TestEditDeleteHeldProp(t *testing.T) {
	f := newFixture(t)
	sys := NewEditSystem(f.shared)
	crate, err := sys.SpawnProp(f.world, crateSpec("crate-2", -3))
	require.NoError(t, err)
	p, _ := f.playerState()
	p.EditMode = true
	p.Held = uint64(crate)

	f.input().DeletePressed = true
	f.step(0.1, sys)
	assert.False(t, ecs.IsAlive(f.world, crate))
	assert.Zero(t, p.Held)
	assert.Zero(t, f.shared.Collision.Len())
	assert.Equal(t, 1, f.scene.removed)
}

func TestGrabIgnoresNonProps(t *testing.T) {
	f := newFixture(t)
	sys := NewEditSystem(f.shared)
	f.enemy(t, component.EnemyRobot, common.V(0, 0, -4))
	p, _ := f.playerState()
	p.EditMode = true
	f.input().GrabPressed = true
	f.step(0.1, sys)
	assert.Zero(t, p.Held)
}

func TestSnapshotRoundTripsProps(t *testing.T) {
	f := newFixture(t)
	sys := NewEditSystem(f.shared)
	_, err := sys.SpawnProp(f.world, crateSpec("a", -3))
	require.NoError(t, err)
	b, err := sys.SpawnProp(f.world, levels.PropSpec{Role: "static", X: 4, Z: 4, Size: [3]float64{2, 3, 2}})
	require.NoError(t, err)
	require.True(t, sys.MoveProp(f.world, b, common.V(8, 0, 8)))

	lvl := Snapshot(f.world, "edited")
	require.Len(t, lvl.Props, 2)
	ids := map[string]levels.PropSpec{}
	for _, p := range lvl.Props {
		ids[p.ID] = p
	}
	assert.Contains(t, ids, "a")
	for id, p := range ids {
		if id == "a" {
			continue
		}
		assert.NotEmpty(t, id)
		assert.Equal(t, "static", p.Role)
		assert.InDelta(t, 8.0, p.X, 1e-9)
	}

	_, ok := FindProp(f.world, "a")
	assert.True(t, ok)
	_, ok = FindProp(f.world, "missing")
	assert.False(t, ok)
}

func TestEditScripts(t *testing.T) {
	f := newFixture(t)
	sys := NewEditSystem(f.shared)
	scripts := NewEditScripts(f.shared, sys)

	err := scripts.Run(f.world, `
id := spawn_prop({id: "wall", role: "static", x: 2, y: 0, z: -4, size: [4, 3, 1]})
move_prop(id, 3, 0, -5)
spawn_enemy("ghost", 10, 10)
`)
	require.NoError(t, err)
	e, ok := FindProp(f.world, "wall")
	require.True(t, ok)
	tr, _ := ecs.Get(f.world, e, component.TransformComponent.Kind())
	assert.Equal(t, common.V(3, 0, -5), tr.Position)
	assert.Equal(t, 1, f.shared.Enemies.Alive(f.world))

	require.NoError(t, scripts.RunFile(f.world, "ambush.tengo"))
	assert.Greater(t, f.shared.Enemies.Alive(f.world), 1)

	_, err = sys.SpawnProp(f.world, crateSpec("loose", -8))
	require.NoError(t, err)
	require.NoError(t, scripts.RunFile(f.world, "clear_props.tengo"))
	_, ok = FindProp(f.world, "loose")
	assert.False(t, ok, "movable props are cleared")
	_, ok = FindProp(f.world, "wall")
	assert.True(t, ok, "static props stay")
}

func TestEditScriptImports(t *testing.T) {
	f := newFixture(t)
	scripts := NewEditScripts(f.shared, nil)
	err := scripts.Run(f.world, `
math := import("math")
text := import("text")
fmt := import("fmt")
rand := import("rand")
spawn_enemy(fmt.sprintf("%s", "robot"), math.floor(10.7), len(text.repeat("a", 3)) + rand.intn(1))
`)
	require.NoError(t, err)
	assert.Equal(t, 1, f.shared.Enemies.Alive(f.world))
}

func TestEditScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "spawn_prop({"},
		{"unknown enemy", `spawn_enemy("dragon", 0, 0)`},
		{"bad arity", `remove_prop()`},
		{"runaway loop", `for { }`},
		{"os module", `os := import("os"); os.remove("level.json")`},
		{"exec module", `os := import("os"); os.exec("sh")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := NewEditScripts(f.shared, nil).Run(f.world, tt.src)
			assert.ErrorIs(t, err, ErrScript)
		})
	}
}
