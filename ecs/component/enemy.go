package component

import "github.com/milk9111/cityfps/common"

// EnemyType selects a row of the enemy stat table.
type EnemyType int

const (
	EnemyRobot EnemyType = iota
	EnemyGhost
	EnemyZombie
	EnemyDemon
)

var enemyTypeNames = [...]string{"robot", "ghost", "zombie", "demon"}

// EnemyTypes lists every variant in table order.
var EnemyTypes = []EnemyType{EnemyRobot, EnemyGhost, EnemyZombie, EnemyDemon}

func (t EnemyType) String() string {
	if t < 0 || int(t) >= len(enemyTypeNames) {
		return "unknown"
	}
	return enemyTypeNames[t]
}

// ParseEnemyType maps a stat table key back to its type.
func ParseEnemyType(name string) (EnemyType, bool) {
	for i, n := range enemyTypeNames {
		if n == name {
			return EnemyType(i), true
		}
	}
	return 0, false
}

// EnemyStats is copied from the stat table when the enemy is created and
// never consulted again from the table.
type EnemyStats struct {
	Health         float64
	Damage         float64
	Speed          float64
	ChaseSpeed     float64
	DetectionRange float64
	AttackRate     float64
	Aerial         bool
	Glow           bool
	Model          string
}

// AIState is the enemy behavior state. Dead is terminal.
type AIState int

const (
	StateIdle AIState = iota
	StatePatrol
	StateChase
	StateAttack
	StateDead
)

func (s AIState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// Passive is true for the states that can aggro.
func (s AIState) Passive() bool {
	return s == StateIdle || s == StatePatrol
}

type Enemy struct {
	Type  EnemyType
	Stats EnemyStats
	State AIState

	Health    float64
	MaxHealth float64

	Origin common.Vec3
	Target *common.Vec3

	AttackCooldown float64
	StateTimer     float64
	IdleTimer      float64

	// Wave is the wave that spawned the enemy; 0 for enemies created
	// outside the director.
	Wave int
}

// Alive reports whether the enemy still takes part in the simulation.
func (e *Enemy) Alive() bool {
	return e != nil && e.State != StateDead
}

// DisplayHealth is health clamped at zero.
func (e *Enemy) DisplayHealth() float64 {
	if e == nil || e.Health < 0 {
		return 0
	}
	return e.Health
}

// EnemyPose is presentation-only output of the cosmetic animation.
type EnemyPose struct {
	Bob   float64
	Glow  float64
	Scale float64
	Sink  float64
	Tilt  float64
	Phase float64
}

var EnemyComponent = NewComponent[Enemy]()
var EnemyPoseComponent = NewComponent[EnemyPose]()
