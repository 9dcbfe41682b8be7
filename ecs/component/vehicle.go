package component

import (
	"github.com/google/uuid"
	"github.com/milk9111/cityfps/common"
)

// Vehicle marks a drivable world object. HalfSize is the half extent of its
// collision box; the box bottom sits at the transform position.
type Vehicle struct {
	Name     string
	HalfSize common.Vec3
}

// VehicleSession lives on the player while driving and is removed on exit.
type VehicleSession struct {
	ID      uuid.UUID
	Vehicle uint64
	Speed   float64
	Steer   float64
}

var VehicleComponent = NewComponent[Vehicle]()
var VehicleSessionComponent = NewComponent[VehicleSession]()
