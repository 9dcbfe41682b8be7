package system

import (
	"testing"

	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/prefabs"
	"github.com/stretchr/testify/assert"
)

func TestRollBands(t *testing.T) {
	spec := prefabs.LootSpec{PotionUpper: 0.1, HatUpper: 0.2, CoinUpper: 0.8}
	tests := []struct {
		r    float64
		want component.LootKind
	}{
		{0, component.LootPotion},
		{0.099, component.LootPotion},
		{0.1, component.LootHat},
		{0.19, component.LootHat},
		{0.2, component.LootCoin},
		{0.79, component.LootCoin},
		{0.8, component.LootNone},
		{0.999, component.LootNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Roll(spec, tt.r), "r=%v", tt.r)
	}
}

func TestShippedTableNeverDropsHats(t *testing.T) {
	spec := prefabs.MustLoadTuning().Loot
	for r := 0.0; r < 1; r += 0.001 {
		assert.NotEqual(t, component.LootHat, Roll(spec, r))
	}
}

func TestArmorGainIsStrictlyDiminishing(t *testing.T) {
	spec := prefabs.LootSpec{ArmorGain: 100}
	p := &component.Player{}
	prev := ArmorGain(spec, 0)
	assert.InDelta(t, 1.0, prev, 1e-12)
	for i := 0; i < 20; i++ {
		Apply(spec, p, component.LootHat)
		gain := ArmorGain(spec, p.Armor)
		assert.Less(t, gain, prev)
		assert.Greater(t, gain, 0.0)
		prev = gain
	}
}

func TestApply(t *testing.T) {
	spec := prefabs.LootSpec{CoinValue: 10, PotionHeal: 25, ArmorGain: 100}
	p := &component.Player{Health: 90, MaxHealth: 100}
	Apply(spec, p, component.LootCoin)
	Apply(spec, p, component.LootPotion)
	Apply(spec, p, component.LootNone)
	assert.Equal(t, 10, p.Money)
	assert.Equal(t, 100.0, p.Health, "potions clamp at max health")
	assert.NotPanics(t, func() { Apply(spec, nil, component.LootCoin) })
}

func TestLootIsPickedUpWithinRadius(t *testing.T) {
	f := newFixture(t)
	sys := NewLootSystem(f.shared)
	near := f.shared.Loot.Spawn(f.world, component.LootCoin, common.V(1, 0, 0))
	far := f.shared.Loot.Spawn(f.world, component.LootCoin, common.V(10, 0, 0))

	f.step(0.1, sys)
	p, _ := f.playerState()
	assert.Equal(t, f.shared.Tuning.Loot.CoinValue, p.Money)
	assert.False(t, ecs.IsAlive(f.world, near))
	assert.True(t, ecs.IsAlive(f.world, far))

	loot, _ := ecs.Get(f.world, far, component.LootComponent.Kind())
	assert.Greater(t, loot.Spin, 0.0)
}

func TestKilledEnemiesDropLoot(t *testing.T) {
	f := newFixture(t)
	f.shared.Tuning.Loot.PotionUpper = 0
	f.shared.Tuning.Loot.HatUpper = 0
	f.shared.Tuning.Loot.CoinUpper = 1
	e, _ := f.enemy(t, component.EnemyRobot, common.V(20, 0, 20))
	f.shared.Enemies.TakeDamage(f.world, e, 1000)

	f.step(0.1, NewLootSystem(f.shared))
	assert.Equal(t, 1, ecs.Count(f.world, component.LootComponent.Kind()))
}
