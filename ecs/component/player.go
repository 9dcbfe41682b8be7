package component

import "github.com/milk9111/cityfps/common"

type Player struct {
	Velocity common.Vec3

	Health    float64
	MaxHealth float64
	Armor     float64
	Money     int
	Kills     int

	JumpCount int
	Grounded  bool

	Ghost    bool
	EditMode bool
	Dead     bool

	// Held is the prop picked up in edit mode (an ecs.Entity), 0 when empty.
	Held uint64

	SpawnOrigin common.Vec3
}

var PlayerComponent = NewComponent[Player]()
