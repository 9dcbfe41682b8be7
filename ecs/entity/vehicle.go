package entity

import (
	"fmt"
	"math"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

var defaultVehicleSize = [3]float64{2, 1.5, 4.2}

// VehicleBox is the collision box of a vehicle: the axis-aligned bounds of
// its footprint turned by yaw. Length runs along the car's forward axis.
func VehicleBox(pos common.Vec3, yaw float64, v *component.Vehicle) common.Box {
	c, s := math.Abs(math.Cos(yaw)), math.Abs(math.Sin(yaw))
	hx := c*v.HalfSize.X + s*v.HalfSize.Z
	hz := s*v.HalfSize.X + c*v.HalfSize.Z
	return common.BoxAt(pos, hx, v.HalfSize.Y*2, hz)
}

func NewVehicle(w *ecs.World, cw *collision.World, name string, pos common.Vec3, yaw float64, size [3]float64) (ecs.Entity, error) {
	if size == ([3]float64{}) {
		size = defaultVehicleSize
	}
	entity := ecs.CreateEntity(w)

	vehicle := &component.Vehicle{
		Name:     name,
		HalfSize: common.V(size[0]/2, size[1]/2, size[2]/2),
	}
	if err := ecs.Add(w, entity, component.VehicleComponent.Kind(), vehicle); err != nil {
		return 0, fmt.Errorf("vehicle: add vehicle: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{Position: pos, Yaw: yaw}); err != nil {
		return 0, fmt.Errorf("vehicle: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.VisualComponent.Kind(), &component.Visual{Model: name}); err != nil {
		return 0, fmt.Errorf("vehicle: add visual: %w", err)
	}

	cw.Add(entity, collision.RoleVehicle, VehicleBox(pos, yaw, vehicle))
	return entity, nil
}
