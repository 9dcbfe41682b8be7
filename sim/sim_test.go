package sim

import (
	"testing"
	"time"

	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/system"
	"github.com/milk9111/cityfps/levels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = 0.1

type recordingAudio struct {
	system.NopAudio
	shots, empties, deaths, hurts int
}

func (a *recordingAudio) PlayShot(string) { a.shots++ }
func (a *recordingAudio) PlayEmpty()      { a.empties++ }
func (a *recordingAudio) PlayEnemyDeath() { a.deaths++ }
func (a *recordingAudio) PlayPlayerHurt() { a.hurts++ }

type recordingHUD struct {
	notes []string
	last  system.HUDStats
}

func (h *recordingHUD) Show(s system.HUDStats)             { h.last = s }
func (h *recordingHUD) Notify(msg string, _ time.Duration) { h.notes = append(h.notes, msg) }

func newTestSim(t *testing.T, audio system.Audio) *Simulation {
	t.Helper()
	s, err := New(Options{
		Ports:      system.Ports{Audio: audio},
		Seed:       7,
		NoDirector: true,
	})
	require.NoError(t, err)
	return s
}

func events(s *Simulation, typ string) []ecs.Event {
	var out []ecs.Event
	for _, ev := range s.Events() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestRobotChasesThenAttacksOncePerSecond(t *testing.T) {
	s := newTestSim(t, nil)
	e, err := s.SpawnEnemy(component.EnemyRobot, common.V(0, 0, -25))
	require.NoError(t, err)

	en, ok := ecs.Get(s.World(), e, component.EnemyComponent.Kind())
	require.True(t, ok)

	sawChase := false
	for i := 0; i < 200 && en.State != component.StateAttack; i++ {
		s.Tick(step, Input{})
		if en.State == component.StateChase {
			sawChase = true
		}
	}
	require.Equal(t, component.StateAttack, en.State)
	assert.True(t, sawChase, "robot should chase before attacking")

	var hitTimes []float64
	for i := 0; i < 40; i++ {
		for _, ev := range events(s, system.EventPlayerDamaged) {
			dmg := ev.Data.(system.PlayerDamaged)
			assert.Equal(t, e, dmg.Source)
			assert.InDelta(t, 10.0, dmg.Effective, 1e-9)
			hitTimes = append(hitTimes, s.World().Elapsed())
		}
		s.Tick(step, Input{})
	}
	require.GreaterOrEqual(t, len(hitTimes), 3)
	for i := 1; i < len(hitTimes); i++ {
		assert.InDelta(t, 1.0, hitTimes[i]-hitTimes[i-1], step+1e-6)
	}
	assert.Less(t, s.Player().Health, s.Player().MaxHealth)
}

func TestPistolEmptiesAfterTwelveShots(t *testing.T) {
	audio := &recordingAudio{}
	s := newTestSim(t, audio)
	ws := s.Weapons().Active()
	require.Equal(t, 12, ws.Ammo)

	fire := Input{Fire: true}
	for i := 0; i < 100 && audio.shots < 12; i++ {
		s.Tick(step, fire)
	}
	require.Equal(t, 12, audio.shots)
	assert.Equal(t, 0, ws.Ammo)
	assert.Zero(t, audio.empties)

	for i := 0; i < 10 && audio.empties == 0; i++ {
		s.Tick(step, fire)
	}
	assert.Equal(t, 1, audio.empties)
	assert.Equal(t, 12, audio.shots, "an empty trigger pull is not a shot")
	assert.Equal(t, 0, ws.Ammo)
}

func TestEnemyDiesOnceAndIsDisposed(t *testing.T) {
	audio := &recordingAudio{}
	s := newTestSim(t, audio)
	e, err := s.SpawnEnemy(component.EnemyRobot, common.V(0, 0, -60))
	require.NoError(t, err)

	assert.False(t, s.Damage(e, 25))
	assert.True(t, s.Damage(e, 25))
	assert.False(t, s.Damage(e, 25), "dead enemies ignore damage")

	en, _ := ecs.Get(s.World(), e, component.EnemyComponent.Kind())
	assert.Equal(t, component.StateDead, en.State)
	assert.Zero(t, en.Health)

	s.Tick(step, Input{})
	assert.Len(t, events(s, system.EventEnemyKilled), 1)
	assert.Equal(t, 1, audio.deaths)
	assert.Equal(t, 1, s.Player().Kills)
	_, _, ok := s.Collision().Volume(e)
	assert.False(t, ok, "dead enemies stop blocking shots")

	for i := 1; i < 9; i++ {
		s.Tick(step, Input{})
	}
	assert.True(t, ecs.IsAlive(s.World(), e), "death animation still playing")
	s.Tick(step, Input{})
	assert.False(t, ecs.IsAlive(s.World(), e))
	assert.Empty(t, events(s, system.EventEnemyKilled))
}

func TestTickClampsDelta(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
		want float64
	}{
		{"normal", 1.0 / 60, 1.0 / 60},
		{"stall", 2.5, MaxDelta},
		{"negative", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, nil)
			s.Tick(tt.dt, Input{})
			assert.InDelta(t, tt.want, s.World().Delta(), 1e-12)
		})
	}
}

func TestNilSimulationTickIsSafe(t *testing.T) {
	var s *Simulation
	assert.NotPanics(t, func() { s.Tick(step, Input{}) })
	assert.Nil(t, s.Events())
}

func TestCityLevelBuilds(t *testing.T) {
	lvl, err := levels.Load("city.yaml")
	require.NoError(t, err)
	hud := &recordingHUD{}
	s, err := New(Options{Level: lvl, Ports: system.Ports{HUD: hud}, Seed: 3, Difficulty: 1})
	require.NoError(t, err)

	assert.Greater(t, s.Collision().Len(), len(lvl.Props)-1)
	require.NotNil(t, s.Wave())

	for i := 0; i < 10; i++ {
		s.Tick(step, Input{})
	}
	assert.Equal(t, 1, s.Wave().Number)
	assert.Contains(t, hud.notes, "Wave 1")
	assert.Equal(t, 1, hud.last.Wave)
	assert.False(t, s.GameOver())
}

func TestScriptsEditTheLevel(t *testing.T) {
	s := newTestSim(t, nil)
	require.NoError(t, s.RunScriptFile("barricade.tengo"))
	assert.Len(t, s.Snapshot().Props, 5)

	require.NoError(t, s.RunScriptFile("clear_props.tengo"))
	assert.Empty(t, s.Snapshot().Props)

	err := s.RunScript("spawn_enemy(")
	assert.ErrorIs(t, err, ErrScript)
}

func TestHeldPropYAMLNeedsAHeldProp(t *testing.T) {
	s := newTestSim(t, nil)
	_, err := s.HeldPropYAML()
	assert.Error(t, err)
}

func TestReloadKeepsTheSimulationRunning(t *testing.T) {
	s := newTestSim(t, nil)
	require.NoError(t, s.Reload())
	s.Tick(step, Input{Fire: true})
	assert.Equal(t, 11, s.Weapons().Active().Ammo)
}
