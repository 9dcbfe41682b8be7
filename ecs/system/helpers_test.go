package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
	"github.com/milk9111/cityfps/prefabs"
	"github.com/stretchr/testify/require"
)

type countingScene struct {
	next    int
	added   map[int]any
	removed int
}

func (s *countingScene) AddVisual(_ ecs.Entity, template any) VisualHandle {
	if s.added == nil {
		s.added = map[int]any{}
	}
	s.next++
	s.added[s.next] = template
	return s.next
}

func (s *countingScene) RemoveVisual(h VisualHandle) {
	if id, ok := h.(int); ok {
		delete(s.added, id)
		s.removed++
	}
}

// recordingAudio counts aggro cues and how many of them were faded out.
type recordingAudio struct {
	NopAudio
	cues  int
	faded int
}

func (a *recordingAudio) PlayEnemyAttack(component.EnemyType) CueHandle {
	a.cues++
	return recordingCue{audio: a}
}

type recordingCue struct {
	audio *recordingAudio
}

func (c recordingCue) Fade(time.Duration) { c.audio.faded++ }

type fixture struct {
	scene  *countingScene
	world  *ecs.World
	shared *Shared
	player ecs.Entity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tuning, err := prefabs.LoadTuning()
	require.NoError(t, err)
	w := ecs.NewWorld()
	scene := &countingScene{}
	shared := NewShared(collision.NewWorld(), tuning, Ports{Scene: scene}, rand.New(rand.NewSource(42)))
	pe, err := entity.NewPlayer(w, tuning.Player, tuning.Weapons, common.Vec3{}, 0)
	require.NoError(t, err)
	return &fixture{scene: scene, world: w, shared: shared, player: pe}
}

// step advances the clock and runs the systems once. Events stay queued so
// the test can inspect them.
func (f *fixture) step(dt float64, systems ...ecs.System) {
	f.world.Advance(dt)
	for _, s := range systems {
		s.Update(f.world)
	}
}

func (f *fixture) input() *component.Input {
	in, _ := ecs.Get(f.world, f.player, component.InputComponent.Kind())
	return in
}

func (f *fixture) playerState() (*component.Player, *component.Transform) {
	p, _ := ecs.Get(f.world, f.player, component.PlayerComponent.Kind())
	tr, _ := ecs.Get(f.world, f.player, component.TransformComponent.Kind())
	return p, tr
}

func (f *fixture) enemy(t *testing.T, typ component.EnemyType, pos common.Vec3) (ecs.Entity, *component.Enemy) {
	t.Helper()
	e, err := f.shared.Enemies.Spawn(f.world, typ, pos, 0)
	require.NoError(t, err)
	en, ok := ecs.Get(f.world, e, component.EnemyComponent.Kind())
	require.True(t, ok)
	return e, en
}

func (f *fixture) obstacle(role collision.Role, box common.Box) ecs.Entity {
	e := ecs.CreateEntity(f.world)
	f.shared.Collision.Add(e, role, box)
	return e
}
