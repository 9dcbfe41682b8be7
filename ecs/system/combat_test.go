package system

import (
	"testing"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weaponsOf(f *fixture) *component.Weapons {
	ws, _ := ecs.Get(f.world, f.player, component.WeaponsComponent.Kind())
	return ws
}

func TestSwitchKeepsPerSlotAmmoAndCancelsReload(t *testing.T) {
	f := newFixture(t)
	weapons := weaponsOf(f)
	require.Equal(t, 2, weapons.Count)

	pistol := weapons.Active()
	pistol.Ammo = 3
	require.True(t, StartReload(pistol))
	require.True(t, pistol.Reloading())

	require.True(t, Switch(weapons))
	assert.False(t, pistol.Reloading())
	assert.Equal(t, 3, pistol.Ammo)
	assert.Equal(t, "Rifle", weapons.Active().Name)
	assert.Equal(t, 30, weapons.Active().Ammo)

	require.True(t, Switch(weapons))
	assert.Equal(t, "Pistol", weapons.Active().Name)
	assert.False(t, Switch(&component.Weapons{Count: 1}))
	assert.False(t, Switch(nil))
}

func TestStartReload(t *testing.T) {
	tests := []struct {
		name string
		ws   component.WeaponState
		want bool
	}{
		{"partial clip", component.WeaponState{MaxAmmo: 12, Ammo: 4, ReloadTime: 1.5}, true},
		{"full clip", component.WeaponState{MaxAmmo: 12, Ammo: 12, ReloadTime: 1.5}, false},
		{"already reloading", component.WeaponState{MaxAmmo: 12, Ammo: 0, ReloadTime: 1.5, Reload: 0.5}, false},
		{"unlimited", component.WeaponState{Unlimited: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := tt.ws
			assert.Equal(t, tt.want, StartReload(&ws))
		})
	}
}

func TestReloadRefillsAfterReloadTime(t *testing.T) {
	f := newFixture(t)
	sys := NewCombatSystem(f.shared)
	pistol := weaponsOf(f).Active()
	pistol.Ammo = 0

	f.input().ReloadPressed = true
	f.step(0.1, sys)
	f.input().ReloadPressed = false
	require.True(t, pistol.Reloading())

	f.input().Fire = true
	for i := 0; i < 14; i++ {
		f.step(0.1, sys)
	}
	assert.Equal(t, 0, pistol.Ammo, "no shots or refill while reloading")
	f.input().Fire = false
	f.step(0.1, sys)
	assert.False(t, pistol.Reloading())
	assert.Equal(t, 12, pistol.Ammo)
}

func TestShotHitsNearestEnemyOnly(t *testing.T) {
	f := newFixture(t)
	sys := NewCombatSystem(f.shared)
	// Yaw 0 looks down -Z.
	near, nearEnemy := f.enemy(t, component.EnemyRobot, common.V(0, 0, -10))
	_, farEnemy := f.enemy(t, component.EnemyRobot, common.V(0, 0, -20))

	f.input().Fire = true
	f.step(0.1, sys)

	assert.InDelta(t, 15.0, nearEnemy.Health, 1e-9)
	assert.Equal(t, farEnemy.MaxHealth, farEnemy.Health)
	assert.True(t, ecs.Has(f.world, near, component.WhiteFlashComponent.Kind()))

	var shot Shot
	f.world.Events().Each(EventShot, func(ev ecs.Event) { shot = ev.Data.(Shot) })
	assert.True(t, shot.Hit)
	assert.Equal(t, near, shot.Enemy)
	assert.Equal(t, 1, ecs.Count(f.world, component.HitMarkerComponent.Kind()))
}

func TestWallsBlockShots(t *testing.T) {
	f := newFixture(t)
	sys := NewCombatSystem(f.shared)
	f.obstacle(collision.RoleStatic, common.Box{Min: common.V(-5, 0, -6), Max: common.V(5, 5, -5)})
	_, en := f.enemy(t, component.EnemyRobot, common.V(0, 0, -10))

	f.input().Fire = true
	f.step(0.1, sys)
	assert.Equal(t, en.MaxHealth, en.Health)

	marker, ok := ecs.First(f.world, component.HitMarkerComponent.Kind())
	require.True(t, ok)
	hm, _ := ecs.Get(f.world, marker, component.HitMarkerComponent.Kind())
	assert.False(t, hm.Enemy)
}

func TestEditModeHolstersTheGun(t *testing.T) {
	f := newFixture(t)
	sys := NewCombatSystem(f.shared)
	p, _ := f.playerState()
	p.EditMode = true
	f.input().Fire = true
	f.step(0.1, sys)
	assert.Equal(t, 12, weaponsOf(f).Active().Ammo)
}
