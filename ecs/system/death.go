package system

import (
	"math"

	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

// timeEpsilon absorbs float drift when summing fixed steps against a duration.
const timeEpsilon = 1e-9

// DyingSystem plays the death animation and retires the enemy when it ends.
type DyingSystem struct {
	shared *Shared
}

func NewDyingSystem(shared *Shared) *DyingSystem {
	return &DyingSystem{shared: shared}
}

func (s *DyingSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()
	height := s.shared.Tuning.Enemies.Height

	ecs.ForEach(w, component.DyingComponent.Kind(), func(e ecs.Entity, d *component.Dying) {
		d.Elapsed += dt
		if pose, ok := ecs.Get(w, e, component.EnemyPoseComponent.Kind()); ok {
			p := d.Progress()
			pose.Scale = 1 - 0.7*p
			pose.Sink = height * 0.5 * p
			pose.Tilt = math.Pi / 2 * p
			pose.Glow = 0
		}
		if d.Elapsed+timeEpsilon >= d.Duration {
			s.shared.Enemies.Retire(w, e)
		}
	})
}

// EnemyPoseSystem drives the cosmetic per-type animation: aerial enemies bob,
// glowing enemies flicker. It writes presentation fields only.
type EnemyPoseSystem struct {
	shared *Shared
}

func NewEnemyPoseSystem(shared *Shared) *EnemyPoseSystem {
	return &EnemyPoseSystem{shared: shared}
}

func (s *EnemyPoseSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()
	spec := s.shared.Tuning.Enemies

	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.EnemyPoseComponent.Kind(), func(_ ecs.Entity, en *component.Enemy, pose *component.EnemyPose) {
		if !en.Alive() {
			return
		}
		pose.Phase += dt
		if en.Stats.Aerial {
			pose.Bob = spec.HoverHeight + math.Sin(pose.Phase*2)*spec.BobAmplitude
		}
		if en.Stats.Glow {
			pose.Glow = 0.6 + 0.4*math.Abs(math.Sin(pose.Phase*13)*math.Cos(pose.Phase*7))
		}
	})
}
