package system

import (
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

const (
	EventEnemyKilled   = "enemy_killed"
	EventPlayerDamaged = "player_damaged"
	EventWaveStarted   = "wave_started"
	EventWaveComplete  = "wave_complete"
	EventShot          = "shot"
)

// EnemyKilled is pushed exactly once per enemy, on entry to Dead.
type EnemyKilled struct {
	Entity   ecs.Entity
	Type     component.EnemyType
	Position common.Vec3
	Wave     int
}

type PlayerDamaged struct {
	Source    ecs.Entity
	Raw       float64
	Effective float64
	Health    float64
}

type WaveEvent struct {
	Number int
	Total  int
}

// Shot describes one resolved hitscan.
type Shot struct {
	Weapon string
	Hit    bool
	Enemy  ecs.Entity
	Point  common.Vec3
}
