package component

import "github.com/milk9111/cityfps/common"

// HitMarker is a transient visual left where a shot landed.
type HitMarker struct {
	Point common.Vec3
	Enemy bool
}

var HitMarkerComponent = NewComponent[HitMarker]()
