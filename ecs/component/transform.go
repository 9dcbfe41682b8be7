package component

import "github.com/milk9111/cityfps/common"

// Transform places an entity in the world. Position is the feet (or base)
// point; yaw 0 faces -Z.
type Transform struct {
	Position common.Vec3
	Yaw      float64
	Pitch    float64
}

var TransformComponent = NewComponent[Transform]()
