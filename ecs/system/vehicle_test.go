package system

import (
	"math"
	"testing"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle(t *testing.T) {
	const (
		maxSpeed = 20
		accel    = 12
		friction = 6
		dt       = 0.5
	)
	tests := []struct {
		name    string
		speed   float64
		forward bool
		back    bool
		want    float64
	}{
		{"accelerate", 0, true, false, 6},
		{"top speed", 18, true, false, 20},
		{"reverse", 0, false, true, -6},
		{"reverse cap", -8, false, true, -10},
		{"coast", 10, false, false, 7},
		{"coast stops at zero", 2, false, false, 0},
		{"coast backwards", -2, false, false, 0},
		{"both pedals coast", 10, true, true, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Throttle(tt.speed, tt.forward, tt.back, maxSpeed, accel, friction, dt)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func vehicleFixture(t *testing.T) (*fixture, *VehicleSystem, ecs.Entity) {
	t.Helper()
	f := newFixture(t)
	v, err := entity.NewVehicle(f.world, f.shared.Collision, "sedan", common.V(0, 0, -2), 0, [3]float64{})
	require.NoError(t, err)
	return f, NewVehicleSystem(f.shared), v
}

func session(f *fixture) (*component.VehicleSession, bool) {
	return ecs.Get(f.world, f.player, component.VehicleSessionComponent.Kind())
}

func TestEnterAndExitVehicle(t *testing.T) {
	f, sys, v := vehicleFixture(t)

	f.input().InteractPressed = true
	f.step(0.1, sys)
	s, ok := session(f)
	require.True(t, ok)
	assert.Equal(t, uint64(v), s.Vehicle)
	assert.True(t, weaponsOf(f).Hidden)
	cam, _ := ecs.Get(f.world, f.player, component.CameraComponent.Kind())
	assert.True(t, cam.Driving)

	f.step(0.1, sys)
	_, ok = session(f)
	assert.False(t, ok)
	assert.False(t, weaponsOf(f).Hidden)
	_, tr := f.playerState()
	assert.InDelta(t, f.shared.Tuning.Vehicle.ExitOffset, tr.Position.X, 1e-9)
}

func TestOutOfReachVehicleIsIgnored(t *testing.T) {
	f, sys, _ := vehicleFixture(t)
	_, tr := f.playerState()
	tr.Position = common.V(30, 0, 30)
	f.input().InteractPressed = true
	f.step(0.1, sys)
	_, ok := session(f)
	assert.False(t, ok)
}

func TestStaticObstacleBouncesTheCar(t *testing.T) {
	f, sys, v := vehicleFixture(t)
	sys.Enter(f.world, f.player, v)
	s, _ := session(f)
	vtr, _ := ecs.Get(f.world, v, component.TransformComponent.Kind())
	f.obstacle(collision.RoleStatic, common.Box{Min: common.V(-5, 0, -6), Max: common.V(5, 4, -4.5)})

	s.Speed = 10
	before := vtr.Position
	f.step(0.1, sys)
	assert.Equal(t, before, vtr.Position)
	assert.Less(t, s.Speed, 0.0)
	assert.InDelta(t, -Throttle(10, false, false, 20, 12, 6, 0.1)*f.shared.Tuning.Vehicle.Bounce, s.Speed, 1e-9)
}

func TestMovablePropsArePushed(t *testing.T) {
	f, sys, v := vehicleFixture(t)
	sys.Enter(f.world, f.player, v)
	s, _ := session(f)
	crate := f.obstacle(collision.RoleMovable, common.Box{Min: common.V(-0.5, 0, -5), Max: common.V(0.5, 1, -4.2)})

	s.Speed = 10
	f.step(0.1, sys)
	box, _, ok := f.shared.Collision.Volume(crate)
	require.True(t, ok)
	assert.Less(t, box.Max.Z, -4.2)
	assert.Less(t, s.Speed, Throttle(10, false, false, 20, 12, 6, 0.1))
}

func TestRammingDamagesEnemies(t *testing.T) {
	f, sys, v := vehicleFixture(t)
	sys.Enter(f.world, f.player, v)
	s, _ := session(f)
	_, en := f.enemy(t, component.EnemyZombie, common.V(0, 0, -5))

	s.Speed = 15
	f.step(0.1, sys)
	speed := Throttle(15, false, false, 20, 12, 6, 0.1)
	want := en.MaxHealth - float64(int(speed*f.shared.Tuning.Vehicle.ImpactDamageFactor))
	assert.InDelta(t, want, en.Health, 1e-9)
	assert.InDelta(t, speed*f.shared.Tuning.Vehicle.ImpactDamping, s.Speed, 1e-9)
}

func TestSlowCarsDoNoDamage(t *testing.T) {
	f, sys, v := vehicleFixture(t)
	sys.Enter(f.world, f.player, v)
	s, _ := session(f)
	_, en := f.enemy(t, component.EnemyZombie, common.V(0, 0, -4.4))

	s.Speed = 3
	f.step(0.1, sys)
	assert.Equal(t, en.MaxHealth, en.Health)
}

func TestCarBouncesOffWallsAtAnyHeading(t *testing.T) {
	// The car sits at (0, 0, -2) and is 4.2 long; each wall face is 2.5 ahead
	// of its center along the heading.
	tests := []struct {
		name string
		yaw  float64
		wall common.Box
	}{
		{"north", 0, common.Box{Min: common.V(-5, 0, -6), Max: common.V(5, 4, -4.5)}},
		{"west", math.Pi / 2, common.Box{Min: common.V(-4, 0, -7), Max: common.V(-2.5, 4, 3)}},
		{"east", -math.Pi / 2, common.Box{Min: common.V(2.5, 0, -7), Max: common.V(4, 4, 3)}},
		{"south", math.Pi, common.Box{Min: common.V(-5, 0, 0.5), Max: common.V(5, 4, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, sys, v := vehicleFixture(t)
			vtr, _ := ecs.Get(f.world, v, component.TransformComponent.Kind())
			vc, _ := ecs.Get(f.world, v, component.VehicleComponent.Kind())
			vtr.Yaw = tt.yaw
			f.shared.Collision.Move(v, entity.VehicleBox(vtr.Position, vtr.Yaw, vc))
			sys.Enter(f.world, f.player, v)
			s, _ := session(f)
			f.obstacle(collision.RoleStatic, tt.wall)

			s.Speed = 10
			before := vtr.Position
			f.step(0.1, sys)
			assert.InDelta(t, before.X, vtr.Position.X, 1e-9)
			assert.InDelta(t, before.Z, vtr.Position.Z, 1e-9)
			assert.Less(t, s.Speed, 0.0)
		})
	}
}

func TestVehicleBoxFollowsHeading(t *testing.T) {
	vc := &component.Vehicle{HalfSize: common.V(1, 0.75, 2.1)}
	tests := []struct {
		name   string
		yaw    float64
		hx, hz float64
	}{
		{"along z", 0, 1, 2.1},
		{"along x", math.Pi / 2, 2.1, 1},
		{"reversed", math.Pi, 1, 2.1},
		{"diagonal", math.Pi / 4, 3.1 * math.Sqrt2 / 2, 3.1 * math.Sqrt2 / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := entity.VehicleBox(common.Vec3{}, tt.yaw, vc)
			size := box.Size()
			assert.InDelta(t, 2*tt.hx, size.X, 1e-9)
			assert.InDelta(t, 2*tt.hz, size.Z, 1e-9)
			assert.InDelta(t, 1.5, size.Y, 1e-9)
		})
	}
}
