package system

import (
	"testing"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
	"github.com/milk9111/cityfps/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveTotal(t *testing.T) {
	spec := prefabs.DirectorSpec{BaseEnemies: 5, PerWave: 3}
	tests := []struct {
		name  string
		wave  int
		level int
		want  int
	}{
		{"first wave easy", 1, 1, 5},
		{"first wave level two", 1, 2, 8},
		{"third wave easy", 3, 1, 11},
		{"second wave hardest", 2, 6, 28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WaveTotal(spec, tt.wave, Multiplier(tt.level)))
		})
	}
}

func TestDifficultyTables(t *testing.T) {
	spec := prefabs.DirectorSpec{Caps: []int{5, 6, 8, 10, 12, 15}}
	tests := []struct {
		level      int
		clamped    int
		multiplier float64
		cap        int
	}{
		{-3, 1, 1.0, 5},
		{1, 1, 1.0, 5},
		{3, 3, 2.0, 8},
		{6, 6, 3.5, 15},
		{9, 6, 3.5, 15},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.clamped, ClampDifficulty(tt.level), "level %d", tt.level)
		assert.InDelta(t, tt.multiplier, Multiplier(tt.level), 1e-12, "level %d", tt.level)
		assert.Equal(t, tt.cap, Cap(spec, tt.level), "level %d", tt.level)
	}
}

func TestValidSpawn(t *testing.T) {
	f := newFixture(t)
	f.obstacle(collision.RoleGround, common.Box{Min: common.V(-100, -1, -100), Max: common.V(100, 0, 100)})
	f.obstacle(collision.RoleStatic, common.Box{Min: common.V(10, 0, 10), Max: common.V(14, 6, 14)})
	f.enemy(t, component.EnemyRobot, common.V(-20, 0, -20))

	tests := []struct {
		name string
		at   common.Vec3
		want bool
	}{
		{"open field", common.V(30, 0, -30), true},
		{"on the ground slab", common.V(0, 0, 20), true},
		{"inside a building", common.V(12, 0, 12), false},
		{"within the safety margin", common.V(14.5, 0, 12), false},
		{"next to a live enemy", common.V(-21, 0, -20), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidSpawn(f.world, f.shared, tt.at))
		})
	}
}

func TestValidSpawnIgnoresDeadEnemies(t *testing.T) {
	f := newFixture(t)
	e, _ := f.enemy(t, component.EnemyRobot, common.V(5, 0, 5))
	f.shared.Enemies.TakeDamage(f.world, e, 1000)
	assert.True(t, ValidSpawn(f.world, f.shared, common.V(5, 0, 5)))
}

func TestFindSpawnOnOpenFieldSucceedsFirstTry(t *testing.T) {
	f := newFixture(t)
	f.shared.Tuning.Director.Attempts = 1
	s := NewWaveSystem(f.shared)
	spec := f.shared.Tuning.Director
	for i := 0; i < 50; i++ {
		p, ok := s.FindSpawn(f.world, common.Vec3{}, 0)
		require.True(t, ok)
		center := common.Forward(0).Scale(spec.ForwardBias)
		d := center.FlatDist(p)
		assert.GreaterOrEqual(t, d, spec.MinSpawnDistance-1e-9)
		assert.LessOrEqual(t, d, spec.MaxSpawnDistance+1e-9)
	}
}

func TestWaveCompletesWhenAllKilledAndAdvances(t *testing.T) {
	f := newFixture(t)
	f.shared.Tuning.Director.BaseEnemies = 2
	f.shared.Tuning.Director.WaveDelay = 0.5
	_, err := entity.NewDirector(f.world, 1)
	require.NoError(t, err)
	s := NewWaveSystem(f.shared)

	f.step(0.1, s)
	wave := director(f.world)
	require.True(t, wave.InProgress)
	require.Equal(t, 1, wave.Number)
	require.Equal(t, 2, wave.Total)

	for i := 0; i < 5; i++ {
		f.world.FlushEvents()
		f.step(0.1, s)
	}
	assert.Equal(t, 2, wave.Spawned, "never spawns past the wave total")
	assert.Equal(t, 2, f.shared.Enemies.Alive(f.world))

	ecs.ForEach(f.world, component.EnemyComponent.Kind(), func(e ecs.Entity, _ *component.Enemy) {
		f.shared.Enemies.TakeDamage(f.world, e, 1000)
	})
	f.step(0.1, s)
	assert.False(t, wave.InProgress)
	assert.Equal(t, 2, wave.Killed)
	completed := 0
	f.world.Events().Each(EventWaveComplete, func(ecs.Event) { completed++ })
	assert.Equal(t, 1, completed)

	for i := 0; i < 6; i++ {
		f.world.FlushEvents()
		f.step(0.1, s)
	}
	assert.Equal(t, 2, wave.Number)
	assert.Equal(t, 5, wave.Total)
}

func TestSpawningRespectsTheCap(t *testing.T) {
	f := newFixture(t)
	f.shared.Tuning.Director.BaseEnemies = 20
	_, err := entity.NewDirector(f.world, 1)
	require.NoError(t, err)
	s := NewWaveSystem(f.shared)
	for i := 0; i < 40; i++ {
		f.step(0.1, s)
		f.world.FlushEvents()
	}
	assert.Equal(t, Cap(f.shared.Tuning.Director, 1), f.shared.Enemies.Alive(f.world))

	SetDifficulty(f.world, f.shared, 6)
	wave := director(f.world)
	assert.Equal(t, 15, wave.Cap)
	assert.InDelta(t, 1.0, wave.Multiplier, 1e-12, "multiplier waits for the next wave")
}
