package system

import (
	"testing"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/stretchr/testify/assert"
)

func TestJumpsResetOnlyOnGround(t *testing.T) {
	f := newFixture(t)
	sys := NewLocomotionSystem(f.shared)
	p, tr := f.playerState()

	jump := func() {
		f.input().JumpPressed = true
		f.step(0.05, sys)
		f.input().JumpPressed = false
	}

	jump()
	assert.Equal(t, 1, p.JumpCount)
	assert.False(t, p.Grounded)
	f.step(0.05, sys)
	jump()
	assert.Equal(t, 2, p.JumpCount)
	apex := tr.Position.Y

	// A third press in the air does nothing.
	vy := p.Velocity.Y
	jump()
	assert.Equal(t, 2, p.JumpCount)
	assert.Less(t, p.Velocity.Y, vy)

	for i := 0; i < 100 && !p.Grounded; i++ {
		f.step(0.05, sys)
		assert.GreaterOrEqual(t, tr.Position.Y, 0.0)
	}
	assert.True(t, p.Grounded)
	assert.Zero(t, p.JumpCount)
	assert.Zero(t, tr.Position.Y)
	assert.Greater(t, apex, 0.0)
}

func TestSecondJumpIsWeaker(t *testing.T) {
	f := newFixture(t)
	sys := NewLocomotionSystem(f.shared)
	p, _ := f.playerState()
	spec := f.shared.Tuning.Player

	f.input().JumpPressed = true
	f.world.Advance(0)
	sys.Update(f.world)
	assert.InDelta(t, spec.JumpSpeed, p.Velocity.Y, 1e-9)
	sys.Update(f.world)
	assert.InDelta(t, spec.JumpSpeed*spec.SecondJumpScale, p.Velocity.Y, 1e-9)
}

func TestWallsBlockWalkingButNotGhosts(t *testing.T) {
	f := newFixture(t)
	sys := NewLocomotionSystem(f.shared)
	_, tr := f.playerState()
	f.obstacle(collision.RoleStatic, common.Box{Min: common.V(-5, 0, -1), Max: common.V(5, 4, -0.6)})

	f.input().Forward = true
	f.step(0.1, sys)
	assert.Zero(t, tr.Position.Z, "blocked moves are dropped entirely")

	f.input().GhostPressed = true
	f.step(0.1, sys)
	f.input().GhostPressed = false
	assert.Less(t, tr.Position.Z, 0.0)
}

func TestWalkUpOntoARoadAndStayThere(t *testing.T) {
	f := newFixture(t)
	sys := NewLocomotionSystem(f.shared)
	p, tr := f.playerState()
	f.obstacle(collision.RoleRoad, common.Box{Min: common.V(-10, -1, -10), Max: common.V(10, 0.05, 10)})

	f.step(0.1, sys)
	assert.True(t, p.Grounded)
	assert.InDelta(t, 0.05, tr.Position.Y, 1e-9)
}

func TestPitchIsClamped(t *testing.T) {
	f := newFixture(t)
	sys := NewLocomotionSystem(f.shared)
	_, tr := f.playerState()
	f.input().LookPitch = 10
	f.step(0.1, sys)
	limit := f.shared.Tuning.Player.PitchLimit * 3.141592653589793 / 180
	assert.InDelta(t, limit, tr.Pitch, 1e-9)

	cam, _ := ecs.Get(f.world, f.player, component.CameraComponent.Kind())
	assert.InDelta(t, f.shared.Tuning.Player.EyeHeight, cam.Position.Y, 1e-9)
}

func TestIntentIsNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   component.Input
		want common.Vec3
	}{
		{"idle", component.Input{}, common.Vec3{}},
		{"forward", component.Input{Forward: true}, common.V(0, 0, -1)},
		{"right", component.Input{Right: true}, common.V(1, 0, 0)},
		{"cancel", component.Input{Forward: true, Back: true}, common.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intent(&tt.in, 0)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-9)
		})
	}
	diag := Intent(&component.Input{Forward: true, Right: true}, 0)
	assert.InDelta(t, 1.0, diag.Len(), 1e-9)
}
