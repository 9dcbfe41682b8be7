// Package sim wires the world, the spatial query service, the managers and
// the systems into one steppable simulation.
package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
	"github.com/milk9111/cityfps/ecs/system"
	"github.com/milk9111/cityfps/levels"
	"github.com/milk9111/cityfps/prefabs"
)

// MaxDelta caps one tick so a stalled frame cannot tunnel actors through walls.
const MaxDelta = 0.1

var ErrScript = system.ErrScript

// Input is one tick of player intent.
type Input = component.Input

type Options struct {
	// Level is the world layout; nil runs on an empty world.
	Level *levels.Layout
	// Tuning defaults to the embedded prefab specs.
	Tuning *prefabs.Tuning
	Ports  system.Ports
	Seed   int64
	// Difficulty 1-6; 0 uses the director default.
	Difficulty int
	// NoDirector disables wave spawning, for scripted scenarios.
	NoDirector bool
}

type Simulation struct {
	world     *ecs.World
	shared    *system.Shared
	scheduler *ecs.Scheduler

	player   ecs.Entity
	director ecs.Entity

	combat  *system.CombatSystem
	edit    *system.EditSystem
	hud     *system.HUDSystem
	scripts *system.EditScripts

	level      *levels.Layout
	lastEvents []ecs.Event
}

func New(opts Options) (*Simulation, error) {
	tuning := opts.Tuning
	if tuning == nil {
		t, err := prefabs.LoadTuning()
		if err != nil {
			return nil, fmt.Errorf("sim: tuning: %w", err)
		}
		tuning = t
	}
	level := opts.Level
	if level == nil {
		level = &levels.Layout{Name: "empty"}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	w := ecs.NewWorld()
	cw := collision.NewWorld()
	shared := system.NewShared(cw, tuning, opts.Ports, rand.New(rand.NewSource(seed)))

	s := &Simulation{world: w, shared: shared, level: level}

	if err := entity.BuildLevel(w, cw, level, shared.Enemies); err != nil {
		// A partly broken layout still runs with whatever loaded.
		log.Warn("level loaded with errors", "level", level.Name, "err", err)
	}

	spawn := common.V(level.PlayerSpawn[0], level.PlayerSpawn[1], level.PlayerSpawn[2])
	pe, err := entity.NewPlayer(w, tuning.Player, tuning.Weapons, spawn, level.PlayerYaw)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.player = pe

	if !opts.NoDirector {
		difficulty := opts.Difficulty
		if difficulty == 0 {
			difficulty = tuning.Director.DefaultDifficulty
		}
		de, err := entity.NewDirector(w, system.ClampDifficulty(difficulty))
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		s.director = de
	}

	shared.Visuals.AttachAll(w, cw)

	s.combat = system.NewCombatSystem(shared)
	s.edit = system.NewEditSystem(shared)
	s.hud = system.NewHUDSystem(shared)
	s.scripts = system.NewEditScripts(shared, s.edit)

	// Tick order: player and vehicle movement, enemy perception and behavior,
	// shots, effect timers, then loot and wave bookkeeping on this tick's
	// kills, editing, and finally the HUD.
	s.scheduler = ecs.NewScheduler(
		system.NewVehicleSystem(shared),
		system.NewLocomotionSystem(shared),
		system.NewEnemyAISystem(shared),
		s.combat,
		system.NewDyingSystem(shared),
		system.NewWhiteFlashSystem(),
		system.NewEnemyPoseSystem(shared),
		system.NewTTLSystem(),
		system.NewLootSystem(shared),
		system.NewWaveSystem(shared),
		s.edit,
		s.hud,
	)
	s.scheduler.SetGuard(system.Guard)

	log.Info("simulation ready", "level", level.Name, "props", len(level.Props), "seed", seed)
	return s, nil
}

// Tick advances the simulation by dt seconds with the given input.
func (s *Simulation) Tick(dt float64, in Input) {
	if s == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	if dt > MaxDelta {
		dt = MaxDelta
	}
	s.world.Advance(dt)
	if cur, ok := ecs.Get(s.world, s.player, component.InputComponent.Kind()); ok {
		*cur = in
	}
	s.scheduler.Update(s.world)
	s.lastEvents = s.world.Events().Drain()
}

// Events returns what happened during the last tick.
func (s *Simulation) Events() []ecs.Event {
	if s == nil {
		return nil
	}
	return s.lastEvents
}

func (s *Simulation) World() *ecs.World             { return s.world }
func (s *Simulation) Collision() *collision.World   { return s.shared.Collision }
func (s *Simulation) Shared() *system.Shared        { return s.shared }
func (s *Simulation) PlayerEntity() ecs.Entity      { return s.player }
func (s *Simulation) Level() *levels.Layout         { return s.level }
func (s *Simulation) Tuning() *prefabs.Tuning       { return s.shared.Tuning }
func (s *Simulation) Enemies() *system.EnemyManager { return s.shared.Enemies }

func (s *Simulation) Player() *component.Player {
	p, _ := ecs.Get(s.world, s.player, component.PlayerComponent.Kind())
	return p
}

func (s *Simulation) PlayerTransform() *component.Transform {
	tr, _ := ecs.Get(s.world, s.player, component.TransformComponent.Kind())
	return tr
}

func (s *Simulation) Weapons() *component.Weapons {
	ws, _ := ecs.Get(s.world, s.player, component.WeaponsComponent.Kind())
	return ws
}

// Camera is the rendering camera maintained by locomotion and driving.
func (s *Simulation) Camera() *component.Camera {
	cam, _ := ecs.Get(s.world, s.player, component.CameraComponent.Kind())
	return cam
}

// Wave is the director state, or nil when the director is disabled.
func (s *Simulation) Wave() *component.Wave {
	if s.director == 0 {
		return nil
	}
	wave, _ := ecs.Get(s.world, s.director, component.WaveComponent.Kind())
	return wave
}

func (s *Simulation) HUD() system.HUDStats {
	return s.hud.Last()
}

func (s *Simulation) GameOver() bool {
	p := s.Player()
	return p == nil || p.Dead
}

func (s *Simulation) SetDifficulty(level int) {
	system.SetDifficulty(s.world, s.shared, level)
}

// SpawnEnemy places an enemy outside of any wave.
func (s *Simulation) SpawnEnemy(typ component.EnemyType, pos common.Vec3) (ecs.Entity, error) {
	return s.shared.Enemies.Spawn(s.world, typ, pos, 0)
}

// Damage applies weapon damage to an enemy as if it had been shot.
func (s *Simulation) Damage(e ecs.Entity, amount float64) bool {
	return s.shared.Enemies.TakeDamage(s.world, e, amount)
}

// Reload re-reads every tuning spec. Stat rows apply to enemies created
// after the reload; live enemies keep the stats they were created with.
func (s *Simulation) Reload() error {
	t, err := prefabs.LoadTuning()
	if err != nil {
		return err
	}
	s.shared.Tuning = t
	s.combat.ReloadTuning()
	log.Info("tuning reloaded")
	return nil
}

// RunScript executes a level-edit console script.
func (s *Simulation) RunScript(src string) error {
	return s.scripts.Run(s.world, src)
}

func (s *Simulation) RunScriptFile(name string) error {
	return s.scripts.RunFile(s.world, name)
}

// Snapshot exports the live level, including edits.
func (s *Simulation) Snapshot() *levels.Layout {
	name := "edited"
	if s.level != nil && s.level.Name != "" {
		name = s.level.Name
	}
	return system.Snapshot(s.world, name)
}

// HeldPropYAML renders the prop held in edit mode as a layout snippet.
func (s *Simulation) HeldPropYAML() ([]byte, error) {
	spec, ok := system.HeldProp(s.world)
	if !ok {
		return nil, errors.New("sim: nothing held")
	}
	return levels.Encode(&levels.Layout{Name: "clipboard", Props: []levels.PropSpec{spec}}, levels.FormatYAML)
}
