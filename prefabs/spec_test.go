package prefabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTuningLoads(t *testing.T) {
	tuning, err := LoadTuning()
	require.NoError(t, err)

	cases := []struct {
		name   string
		health float64
		damage float64
		rate   float64
		aerial bool
		glow   bool
	}{
		{"robot", 40, 10, 1.0, false, false},
		{"ghost", 30, 8, 1.5, true, false},
		{"zombie", 60, 15, 0.8, false, false},
		{"demon", 100, 20, 1.2, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, ok := tuning.Enemies.Types[c.name]
			require.True(t, ok)
			assert.Equal(t, c.health, spec.Health)
			assert.Equal(t, c.damage, spec.Damage)
			assert.Equal(t, c.rate, spec.AttackRate)
			assert.Equal(t, c.aerial, spec.Aerial)
			assert.Equal(t, c.glow, spec.Glow)
		})
	}

	pistol, ok := tuning.Weapons.Weapon("pistol")
	require.True(t, ok)
	assert.Equal(t, 12, pistol.MaxAmmo)
	assert.Equal(t, 25.0, pistol.Damage)

	gun, ok := tuning.Weapons.Weapon(tuning.Weapons.Vehicle)
	require.True(t, ok)
	assert.True(t, gun.Unlimited)

	assert.Equal(t, []int{5, 6, 8, 10, 12, 15}, tuning.Director.Caps)
	assert.Equal(t, 20, tuning.Director.Attempts)
	assert.Equal(t, 2, tuning.Player.MaxJumps)
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"zero_attack_rate", func(t *Tuning) {
			r := t.Enemies.Types["robot"]
			r.AttackRate = 0
			t.Enemies.Types["robot"] = r
		}},
		{"unknown_loadout", func(t *Tuning) { t.Weapons.Loadout = []string{"bazooka"} }},
		{"three_weapons", func(t *Tuning) { t.Weapons.Loadout = []string{"pistol", "rifle", "pistol"} }},
		{"unordered_loot", func(t *Tuning) { t.Loot.HatUpper = 0.05 }},
		{"no_caps", func(t *Tuning) { t.Director.Caps = nil }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tuning, err := LoadTuning()
			require.NoError(t, err)
			c.mutate(tuning)
			assert.ErrorIs(t, tuning.Validate(), ErrInvalidTuning)
		})
	}
}

func TestScriptsEmbedded(t *testing.T) {
	names := Scripts()
	assert.Contains(t, names, "barricade.tengo")

	src, err := LoadScript("prefabs/scripts/barricade.tengo")
	require.NoError(t, err)
	assert.Contains(t, string(src), "spawn_prop")

	src2, err := LoadScript("barricade.tengo")
	require.NoError(t, err)
	assert.Equal(t, src, src2)
}
