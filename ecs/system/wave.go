package system

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/prefabs"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 6
)

// WaveSystem is the spawn director. It starts waves, spawns at most one enemy
// per tick, counts kills of the current wave and schedules the next wave.
type WaveSystem struct {
	shared *Shared
}

func NewWaveSystem(shared *Shared) *WaveSystem {
	return &WaveSystem{shared: shared}
}

// WaveTotal is ceil((base + perWave*(n-1)) * multiplier).
func WaveTotal(spec prefabs.DirectorSpec, n int, multiplier float64) int {
	base := float64(spec.BaseEnemies + spec.PerWave*(n-1))
	// Round away float noise before ceil so 5*1.5 stays 7.5, not 7.500000001.
	return int(math.Ceil(math.Round(base*multiplier*1e9) / 1e9))
}

// Multiplier maps a difficulty level to the wave size multiplier.
func Multiplier(level int) float64 {
	return 0.5 + 0.5*float64(ClampDifficulty(level))
}

// Cap is the simultaneous enemy limit for a difficulty level.
func Cap(spec prefabs.DirectorSpec, level int) int {
	if len(spec.Caps) == 0 {
		return 0
	}
	i := ClampDifficulty(level) - 1
	if i >= len(spec.Caps) {
		i = len(spec.Caps) - 1
	}
	return spec.Caps[i]
}

func ClampDifficulty(level int) int {
	if level < MinDifficulty {
		return MinDifficulty
	}
	if level > MaxDifficulty {
		return MaxDifficulty
	}
	return level
}

// SetDifficulty changes the level. The cap applies right away; the multiplier
// is used when the next wave is sized.
func SetDifficulty(w *ecs.World, shared *Shared, level int) {
	wave := director(w)
	if wave == nil {
		return
	}
	wave.Difficulty = ClampDifficulty(level)
	wave.Cap = Cap(shared.Tuning.Director, wave.Difficulty)
	log.Info("difficulty set", "level", wave.Difficulty, "cap", wave.Cap)
}

func director(w *ecs.World) *component.Wave {
	e, ok := ecs.First(w, component.WaveComponent.Kind())
	if !ok {
		return nil
	}
	wave, _ := ecs.Get(w, e, component.WaveComponent.Kind())
	return wave
}

func (s *WaveSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	wave := director(w)
	if wave == nil {
		return
	}
	spec := s.shared.Tuning.Director

	w.Events().Each(EventEnemyKilled, func(ev ecs.Event) {
		killed, ok := ev.Data.(EnemyKilled)
		if !ok || !wave.InProgress || killed.Wave != wave.Number {
			return
		}
		if wave.Killed < wave.Total {
			wave.Killed++
		}
		if wave.Killed == wave.Total {
			s.complete(w, wave)
		}
	})

	_, p, ptr, ok := player(w)
	if !ok || p.Dead {
		return
	}

	if !wave.InProgress {
		wave.AdvanceTimer -= w.Delta()
		if wave.AdvanceTimer <= timeEpsilon {
			s.start(w, wave)
		}
		return
	}

	if wave.Spawned >= wave.Total || s.shared.Enemies.Alive(w) >= wave.Cap {
		return
	}
	pos, ok := s.FindSpawn(w, p.SpawnOrigin, ptr.Yaw)
	if !ok {
		log.Debug("no spawn position this tick", "wave", wave.Number, "attempts", spec.Attempts)
		return
	}
	typ := s.pickType(wave.Number)
	if _, err := s.shared.Enemies.Spawn(w, typ, pos, wave.Number); err != nil {
		log.Warn("spawn enemy", "type", typ, "err", err)
		return
	}
	wave.Spawned++
}

func (s *WaveSystem) start(w *ecs.World, wave *component.Wave) {
	spec := s.shared.Tuning.Director
	if wave.Difficulty == 0 {
		wave.Difficulty = ClampDifficulty(spec.DefaultDifficulty)
	}
	wave.Number++
	wave.Multiplier = Multiplier(wave.Difficulty)
	wave.Cap = Cap(spec, wave.Difficulty)
	wave.Total = WaveTotal(spec, wave.Number, wave.Multiplier)
	wave.Spawned = 0
	wave.Killed = 0
	wave.AdvanceTimer = 0
	wave.InProgress = true

	s.shared.Ports.HUD.Notify(fmt.Sprintf("Wave %d", wave.Number), s.notifyDuration())
	w.Events().Push(ecs.Event{Type: EventWaveStarted, Data: WaveEvent{Number: wave.Number, Total: wave.Total}})
	log.Info("wave started", "wave", wave.Number, "total", wave.Total, "cap", wave.Cap, "difficulty", wave.Difficulty)
}

func (s *WaveSystem) complete(w *ecs.World, wave *component.Wave) {
	wave.InProgress = false
	wave.AdvanceTimer = s.shared.Tuning.Director.WaveDelay
	s.shared.Ports.Audio.PlayWaveComplete()
	s.shared.Ports.HUD.Notify(fmt.Sprintf("Wave %d complete", wave.Number), s.notifyDuration())
	w.Events().Push(ecs.Event{Type: EventWaveComplete, Data: WaveEvent{Number: wave.Number, Total: wave.Total}})
	log.Info("wave complete", "wave", wave.Number, "killed", wave.Killed)
}

func (s *WaveSystem) notifyDuration() time.Duration {
	return time.Duration(s.shared.Tuning.Director.NotifySeconds * float64(time.Second))
}

// pickType chooses uniformly among the types unlocked by wave n.
func (s *WaveSystem) pickType(n int) component.EnemyType {
	var unlocked []component.EnemyType
	for _, t := range component.EnemyTypes {
		row, ok := s.shared.Tuning.Enemies.Types[t.String()]
		if ok && row.UnlockWave <= n {
			unlocked = append(unlocked, t)
		}
	}
	if len(unlocked) == 0 {
		return component.EnemyRobot
	}
	return unlocked[s.shared.Rand.Intn(len(unlocked))]
}

// FindSpawn samples the annulus around origin, shifted ahead along yaw, and
// returns the first point the validator accepts.
func (s *WaveSystem) FindSpawn(w *ecs.World, origin common.Vec3, yaw float64) (common.Vec3, bool) {
	spec := s.shared.Tuning.Director
	center := origin.Add(common.Forward(yaw).Scale(spec.ForwardBias))
	for i := 0; i < spec.Attempts; i++ {
		angle := s.shared.Rand.Float64() * 2 * math.Pi
		r := spec.MinSpawnDistance + s.shared.Rand.Float64()*(spec.MaxSpawnDistance-spec.MinSpawnDistance)
		p := center.Add(common.V(math.Cos(angle)*r, 0, math.Sin(angle)*r))
		if h, ok := s.shared.Collision.GroundHeight(p.X, p.Z, p.Y+100, collision.Surfaces); ok {
			p.Y = h
		}
		if ValidSpawn(w, s.shared, p) {
			return p, true
		}
	}
	return common.Vec3{}, false
}

// ValidSpawn rejects points near a live enemy and points inside any
// non-ground obstacle grown by the safety margin.
func ValidSpawn(w *ecs.World, shared *Shared, p common.Vec3) bool {
	spec := shared.Tuning.Director
	valid := true
	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, en *component.Enemy, tr *component.Transform) {
		if valid && en.Alive() && tr.Position.FlatDist(p) < spec.Proximity {
			valid = false
		}
	})
	if !valid {
		return false
	}
	return !shared.Collision.PointInsideXZ(p.X, p.Z, collision.Obstacles, spec.SafetyMargin)
}
