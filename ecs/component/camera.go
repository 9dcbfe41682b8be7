package component

import "github.com/milk9111/cityfps/common"

// Camera is the rendering camera handle: where the eye is and where it looks.
// Aim rays and line of sight start here.
type Camera struct {
	Position common.Vec3
	Yaw      float64
	Pitch    float64
	LookAt   common.Vec3
	Driving  bool
}

// Forward is the unit aim direction.
func (c *Camera) Forward() common.Vec3 {
	if c == nil {
		return common.Vec3{Z: -1}
	}
	if c.Driving {
		if d := c.LookAt.Sub(c.Position).Normalize(); d.Len() > 0 {
			return d
		}
	}
	return common.Aim(c.Yaw, c.Pitch)
}

var CameraComponent = NewComponent[Camera]()
