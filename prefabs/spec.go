package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type EnemyTypeSpec struct {
	Health         float64 `yaml:"health"`
	Damage         float64 `yaml:"damage"`
	Speed          float64 `yaml:"speed"`
	ChaseSpeed     float64 `yaml:"chase_speed"`
	DetectionRange float64 `yaml:"detection_range"`
	AttackRate     float64 `yaml:"attack_rate"`
	Aerial         bool    `yaml:"aerial"`
	Glow           bool    `yaml:"glow"`
	UnlockWave     int     `yaml:"unlock_wave"`
	Model          string  `yaml:"model"`
}

// EnemiesSpec holds the per-type stat table and the tuning shared by every type.
type EnemiesSpec struct {
	AttackRange       float64 `yaml:"attack_range"`
	LoseInterestRange float64 `yaml:"lose_interest_range"`
	PatrolRadius      float64 `yaml:"patrol_radius"`
	PatrolWait        float64 `yaml:"patrol_wait"`
	ArrivalDistance   float64 `yaml:"arrival_distance"`
	SightTolerance    float64 `yaml:"sight_tolerance"`
	EyeHeight         float64 `yaml:"eye_height"`
	Radius            float64 `yaml:"radius"`
	Height            float64 `yaml:"height"`
	DeathDuration     float64 `yaml:"death_duration"`
	FlashDuration     float64 `yaml:"flash_duration"`
	BobAmplitude      float64 `yaml:"bob_amplitude"`
	HoverHeight       float64 `yaml:"hover_height"`

	Types map[string]EnemyTypeSpec `yaml:"types"`
}

type WeaponSpec struct {
	Name       string  `yaml:"name"`
	MaxAmmo    int     `yaml:"max_ammo"`
	Damage     float64 `yaml:"damage"`
	FireRate   float64 `yaml:"fire_rate"`
	ReloadTime float64 `yaml:"reload_time"`
	Range      float64 `yaml:"range"`
	Unlimited  bool    `yaml:"unlimited"`
}

type WeaponsSpec struct {
	Loadout   []string              `yaml:"loadout"`
	Vehicle   string                `yaml:"vehicle"`
	MarkerTTL float64               `yaml:"marker_ttl"`
	Weapons   map[string]WeaponSpec `yaml:"weapons"`
}

// Weapon looks up a weapon by key and fills in its name.
func (s WeaponsSpec) Weapon(key string) (WeaponSpec, bool) {
	w, ok := s.Weapons[key]
	if !ok {
		return WeaponSpec{}, false
	}
	if w.Name == "" {
		w.Name = key
	}
	return w, true
}

type PlayerSpec struct {
	Gravity         float64    `yaml:"gravity"`
	JumpSpeed       float64    `yaml:"jump_speed"`
	MoveSpeed       float64    `yaml:"move_speed"`
	Radius          float64    `yaml:"radius"`
	Height          float64    `yaml:"height"`
	EyeHeight       float64    `yaml:"eye_height"`
	MaxHealth       float64    `yaml:"max_health"`
	MaxJumps        int        `yaml:"max_jumps"`
	SecondJumpScale float64    `yaml:"second_jump_scale"`
	GroundTolerance float64    `yaml:"ground_tolerance"`
	InteractRange   float64    `yaml:"interact_range"`
	PitchLimit      float64    `yaml:"pitch_limit"`
	Spawn           [3]float64 `yaml:"spawn"`
}

type VehicleSpec struct {
	MaxSpeed           float64 `yaml:"max_speed"`
	Acceleration       float64 `yaml:"acceleration"`
	Friction           float64 `yaml:"friction"`
	SteerRate          float64 `yaml:"steer_rate"`
	SteerMinSpeed      float64 `yaml:"steer_min_speed"`
	PushBleed          float64 `yaml:"push_bleed"`
	Bounce             float64 `yaml:"bounce"`
	StopThreshold      float64 `yaml:"stop_threshold"`
	ImpactMinSpeed     float64 `yaml:"impact_min_speed"`
	ImpactDamageFactor float64 `yaml:"impact_damage_factor"`
	ImpactDamping      float64 `yaml:"impact_damping"`
	ExitOffset         float64 `yaml:"exit_offset"`
	CameraBack         float64 `yaml:"camera_back"`
	CameraUp           float64 `yaml:"camera_up"`
	CameraLookHeight   float64 `yaml:"camera_look_height"`
	CameraSmoothing    float64 `yaml:"camera_smoothing"`
	GroundSampleHeight float64 `yaml:"ground_sample_height"`
}

type LootSpec struct {
	PotionUpper  float64 `yaml:"potion_upper"`
	HatUpper     float64 `yaml:"hat_upper"`
	CoinUpper    float64 `yaml:"coin_upper"`
	PickupRadius float64 `yaml:"pickup_radius"`
	CoinValue    int     `yaml:"coin_value"`
	PotionHeal   float64 `yaml:"potion_heal"`
	ArmorGain    float64 `yaml:"armor_gain"`
	FloatHeight  float64 `yaml:"float_height"`
	BobAmplitude float64 `yaml:"bob_amplitude"`
	BobSpeed     float64 `yaml:"bob_speed"`
	SpinSpeed    float64 `yaml:"spin_speed"`
}

type DirectorSpec struct {
	BaseEnemies       int     `yaml:"base_enemies"`
	PerWave           int     `yaml:"per_wave"`
	MinSpawnDistance  float64 `yaml:"min_spawn_distance"`
	MaxSpawnDistance  float64 `yaml:"max_spawn_distance"`
	ForwardBias       float64 `yaml:"forward_bias"`
	Proximity         float64 `yaml:"proximity"`
	SafetyMargin      float64 `yaml:"safety_margin"`
	Attempts          int     `yaml:"attempts"`
	WaveDelay         float64 `yaml:"wave_delay"`
	NotifySeconds     float64 `yaml:"notify_seconds"`
	Caps              []int   `yaml:"caps"`
	DefaultDifficulty int     `yaml:"default_difficulty"`
}

type EditSpec struct {
	PickRange    float64 `yaml:"pick_range"`
	HoldDistance float64 `yaml:"hold_distance"`
}

// Tuning is every gameplay table the simulation reads at initialization.
type Tuning struct {
	Enemies  EnemiesSpec
	Weapons  WeaponsSpec
	Player   PlayerSpec
	Vehicle  VehicleSpec
	Loot     LootSpec
	Director DirectorSpec
	Edit     EditSpec
}

// TuningFiles lists the spec files LoadTuning reads.
var TuningFiles = []string{
	"enemies.yaml",
	"weapons.yaml",
	"player.yaml",
	"vehicle.yaml",
	"loot.yaml",
	"director.yaml",
	"edit.yaml",
}

func LoadTuning() (*Tuning, error) {
	var t Tuning
	var err error
	if t.Enemies, err = LoadSpec[EnemiesSpec]("enemies.yaml"); err != nil {
		return nil, err
	}
	if t.Weapons, err = LoadSpec[WeaponsSpec]("weapons.yaml"); err != nil {
		return nil, err
	}
	if t.Player, err = LoadSpec[PlayerSpec]("player.yaml"); err != nil {
		return nil, err
	}
	if t.Vehicle, err = LoadSpec[VehicleSpec]("vehicle.yaml"); err != nil {
		return nil, err
	}
	if t.Loot, err = LoadSpec[LootSpec]("loot.yaml"); err != nil {
		return nil, err
	}
	if t.Director, err = LoadSpec[DirectorSpec]("director.yaml"); err != nil {
		return nil, err
	}
	if t.Edit, err = LoadSpec[EditSpec]("edit.yaml"); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// MustLoadTuning is for tests and tools that only run against the embedded
// defaults.
func MustLoadTuning() *Tuning {
	t, err := LoadTuning()
	if err != nil {
		panic(err)
	}
	return t
}

var ErrInvalidTuning = errors.New("prefabs: invalid tuning")

func (t *Tuning) Validate() error {
	if t == nil {
		return ErrInvalidTuning
	}
	var errs []error
	if len(t.Enemies.Types) == 0 {
		errs = append(errs, fmt.Errorf("%w: enemies.types is empty", ErrInvalidTuning))
	}
	for name, e := range t.Enemies.Types {
		if e.AttackRate <= 0 {
			errs = append(errs, fmt.Errorf("%w: enemy %s attack_rate must be > 0", ErrInvalidTuning, name))
		}
		if e.Health <= 0 {
			errs = append(errs, fmt.Errorf("%w: enemy %s health must be > 0", ErrInvalidTuning, name))
		}
	}
	for name, w := range t.Weapons.Weapons {
		if w.FireRate <= 0 {
			errs = append(errs, fmt.Errorf("%w: weapon %s fire_rate must be > 0", ErrInvalidTuning, name))
		}
		if w.MaxAmmo <= 0 && !w.Unlimited {
			errs = append(errs, fmt.Errorf("%w: weapon %s max_ammo must be > 0", ErrInvalidTuning, name))
		}
	}
	for _, key := range t.Weapons.Loadout {
		if _, ok := t.Weapons.Weapons[key]; !ok {
			errs = append(errs, fmt.Errorf("%w: loadout weapon %s is not defined", ErrInvalidTuning, key))
		}
	}
	if len(t.Weapons.Loadout) > 2 {
		errs = append(errs, fmt.Errorf("%w: at most two weapons can be equipped", ErrInvalidTuning))
	}
	if len(t.Director.Caps) == 0 {
		errs = append(errs, fmt.Errorf("%w: director.caps is empty", ErrInvalidTuning))
	}
	if t.Director.MinSpawnDistance > t.Director.MaxSpawnDistance {
		errs = append(errs, fmt.Errorf("%w: director spawn distances are inverted", ErrInvalidTuning))
	}
	l := t.Loot
	if l.PotionUpper < 0 || l.HatUpper < l.PotionUpper || l.CoinUpper < l.HatUpper || l.CoinUpper > 1 {
		errs = append(errs, fmt.Errorf("%w: loot bands must be ordered within [0,1]", ErrInvalidTuning))
	}
	if t.Player.MaxJumps < 1 {
		errs = append(errs, fmt.Errorf("%w: player.max_jumps must be >= 1", ErrInvalidTuning))
	}
	return errors.Join(errs...)
}
