package system

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
)

// VehicleSystem handles entering, driving and leaving vehicles.
type VehicleSystem struct {
	shared *Shared
}

func NewVehicleSystem(shared *Shared) *VehicleSystem {
	return &VehicleSystem{shared: shared}
}

func (s *VehicleSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	pe, p, tr, ok := player(w)
	if !ok || p.Dead {
		return
	}
	in, ok := ecs.Get(w, pe, component.InputComponent.Kind())
	if !ok {
		in = &component.Input{}
	}

	session, driving := ecs.Get(w, pe, component.VehicleSessionComponent.Kind())
	if in.InteractPressed && !p.EditMode {
		if driving {
			s.Exit(w, pe)
			return
		}
		if v, ok := s.nearestVehicle(w, tr.Position); ok {
			s.Enter(w, pe, v)
		}
		return
	}
	if !driving {
		return
	}
	s.drive(w, pe, tr, in, session)
}

func (s *VehicleSystem) nearestVehicle(w *ecs.World, pos common.Vec3) (ecs.Entity, bool) {
	reach := s.shared.Tuning.Player.InteractRange
	best, bestDist := ecs.Entity(0), math.Inf(1)
	ecs.ForEach(w, component.VehicleComponent.Kind(), func(e ecs.Entity, _ *component.Vehicle) {
		box, _, ok := s.shared.Collision.Volume(e)
		if !ok {
			return
		}
		cx := common.Clamp(pos.X, box.Min.X, box.Max.X)
		cz := common.Clamp(pos.Z, box.Min.Z, box.Max.Z)
		d := math.Hypot(pos.X-cx, pos.Z-cz)
		if d <= reach && d < bestDist {
			best, bestDist = e, d
		}
	})
	return best, best != 0
}

// Enter binds the player to vehicle v: weapon hidden, velocity zeroed.
func (s *VehicleSystem) Enter(w *ecs.World, pe, v ecs.Entity) {
	if ecs.Has(w, pe, component.VehicleSessionComponent.Kind()) || !ecs.Has(w, v, component.VehicleComponent.Kind()) {
		return
	}
	p, _ := ecs.Get(w, pe, component.PlayerComponent.Kind())
	if p != nil {
		p.Velocity = common.Vec3{}
	}
	if weapons, ok := ecs.Get(w, pe, component.WeaponsComponent.Kind()); ok {
		weapons.Hidden = true
		if active := weapons.Active(); active != nil {
			active.Reload = 0
		}
	}
	session := &component.VehicleSession{ID: uuid.New(), Vehicle: uint64(v)}
	if err := ecs.Add(w, pe, component.VehicleSessionComponent.Kind(), session); err != nil {
		log.Error("vehicle enter", "err", err)
		return
	}
	if vtr, ok := ecs.Get(w, v, component.TransformComponent.Kind()); ok {
		if ptr, ok := ecs.Get(w, pe, component.TransformComponent.Kind()); ok {
			ptr.Position = vtr.Position
			ptr.Yaw = vtr.Yaw
		}
		if cam, ok := ecs.Get(w, pe, component.CameraComponent.Kind()); ok {
			cam.Driving = true
			cam.Position = s.cameraTarget(vtr)
			cam.LookAt = vtr.Position.Add(common.V(0, s.shared.Tuning.Vehicle.CameraLookHeight, 0))
		}
	}
	log.Info("vehicle entered", "session", session.ID, "vehicle", v)
}

// Exit puts the player beside the vehicle and returns control to walking.
func (s *VehicleSystem) Exit(w *ecs.World, pe ecs.Entity) {
	session, ok := ecs.Get(w, pe, component.VehicleSessionComponent.Kind())
	if !ok {
		return
	}
	v := ecs.Entity(session.Vehicle)
	if vtr, ok := ecs.Get(w, v, component.TransformComponent.Kind()); ok {
		if ptr, ok := ecs.Get(w, pe, component.TransformComponent.Kind()); ok {
			out := vtr.Position.Add(common.Right(vtr.Yaw).Scale(s.shared.Tuning.Vehicle.ExitOffset))
			if h, ok := s.shared.Collision.GroundHeight(out.X, out.Z, out.Y+s.shared.Tuning.Vehicle.GroundSampleHeight, collision.LevelVolumes); ok {
				out.Y = h
			}
			ptr.Position = out
			ptr.Yaw = vtr.Yaw
			ptr.Pitch = 0
		}
	}
	if weapons, ok := ecs.Get(w, pe, component.WeaponsComponent.Kind()); ok {
		weapons.Hidden = false
	}
	if cam, ok := ecs.Get(w, pe, component.CameraComponent.Kind()); ok {
		cam.Driving = false
	}
	ecs.Remove(w, pe, component.VehicleSessionComponent.Kind())
	log.Info("vehicle exited", "session", session.ID, "vehicle", v)
}

func (s *VehicleSystem) drive(w *ecs.World, pe ecs.Entity, ptr *component.Transform, in *component.Input, session *component.VehicleSession) {
	v := ecs.Entity(session.Vehicle)
	vtr, ok := ecs.Get(w, v, component.TransformComponent.Kind())
	vc, ok2 := ecs.Get(w, v, component.VehicleComponent.Kind())
	if !ok || !ok2 {
		// The vehicle went away under us; fall back to walking.
		s.Exit(w, pe)
		return
	}
	spec := s.shared.Tuning.Vehicle
	dt := w.Delta()

	session.Speed = Throttle(session.Speed, in.Forward, in.Back, spec.MaxSpeed, spec.Acceleration, spec.Friction, dt)

	steer := 0.0
	if in.Left {
		steer++
	}
	if in.Right {
		steer--
	}
	session.Steer = steer
	if steer != 0 && math.Abs(session.Speed) > spec.SteerMinSpeed {
		dir := 1.0
		if session.Speed < 0 {
			dir = -1
		}
		vtr.Yaw += steer * spec.SteerRate * dt * dir
	}

	disp := common.Forward(vtr.Yaw).Scale(session.Speed * dt)
	if disp != (common.Vec3{}) {
		s.translate(w, v, vtr, vc, session, disp)
	}

	top := vtr.Position.Y + spec.GroundSampleHeight
	if h, ok := s.shared.Collision.GroundHeight(vtr.Position.X, vtr.Position.Z, top, collision.Surfaces); ok {
		vtr.Position.Y = h
	}
	box := entity.VehicleBox(vtr.Position, vtr.Yaw, vc)
	s.shared.Collision.Move(v, box)

	s.impact(w, box, session)

	ptr.Position = vtr.Position
	ptr.Yaw = vtr.Yaw

	if cam, ok := ecs.Get(w, pe, component.CameraComponent.Kind()); ok {
		s.follow(cam, vtr, dt)
	}
}

// translate moves the vehicle by disp. Movable props get pushed along and
// bleed speed; anything static cancels the move and bounces the car back.
func (s *VehicleSystem) translate(w *ecs.World, v ecs.Entity, vtr *component.Transform, vc *component.Vehicle, session *component.VehicleSession, disp common.Vec3) {
	spec := s.shared.Tuning.Vehicle
	next := vtr.Position.Add(disp)
	box := entity.VehicleBox(next, vtr.Yaw, vc)
	// Lift the contact box a little so the surface we are driving on never counts.
	box.Min.Y += 0.05

	hits := s.shared.Collision.Overlaps(box, collision.Obstacles, v)
	var movable []collision.Hit
	for _, h := range hits {
		if h.Role != collision.RoleMovable {
			// Translation is dropped; the car stays where it was.
			session.Speed = -session.Speed * spec.Bounce
			if math.Abs(session.Speed) < spec.StopThreshold {
				session.Speed = 0
			}
			return
		}
		movable = append(movable, h)
	}
	for _, h := range movable {
		pushed := h.Box.Translate(disp)
		s.shared.Collision.Move(h.Entity, pushed)
		if tr, ok := ecs.Get(w, h.Entity, component.TransformComponent.Kind()); ok {
			tr.Position = tr.Position.Add(disp)
		}
	}
	if len(movable) > 0 {
		session.Speed *= spec.PushBleed
	}
	vtr.Position = next
}

// impact damages every live enemy the moving car overlaps.
func (s *VehicleSystem) impact(w *ecs.World, box common.Box, session *component.VehicleSession) {
	spec := s.shared.Tuning.Vehicle
	speed := math.Abs(session.Speed)
	if speed <= spec.ImpactMinSpeed {
		return
	}
	hits := s.shared.Collision.Overlaps(box, collision.RoleEnemy)
	if len(hits) == 0 {
		return
	}
	damage := math.Floor(speed * spec.ImpactDamageFactor)
	struck := false
	for _, h := range hits {
		en, ok := ecs.Get(w, h.Entity, component.EnemyComponent.Kind())
		if !ok || !en.Alive() {
			continue
		}
		s.shared.Enemies.TakeDamage(w, h.Entity, damage)
		struck = true
	}
	if struck {
		session.Speed *= spec.ImpactDamping
	}
}

func (s *VehicleSystem) cameraTarget(vtr *component.Transform) common.Vec3 {
	spec := s.shared.Tuning.Vehicle
	return vtr.Position.
		Sub(common.Forward(vtr.Yaw).Scale(spec.CameraBack)).
		Add(common.V(0, spec.CameraUp, 0))
}

func (s *VehicleSystem) follow(cam *component.Camera, vtr *component.Transform, dt float64) {
	spec := s.shared.Tuning.Vehicle
	cam.Driving = true
	cam.Position = cam.Position.Lerp(s.cameraTarget(vtr), common.Damp(spec.CameraSmoothing, dt))
	cam.LookAt = vtr.Position.Add(common.V(0, spec.CameraLookHeight, 0))
	cam.Yaw = common.YawTowards(cam.Position, cam.LookAt)
	cam.Pitch = common.PitchTowards(cam.Position, cam.LookAt)
}

// Throttle integrates the scalar car speed. Reverse tops out at half the
// forward maximum; with no input, friction pulls speed toward zero at a
// constant rate.
func Throttle(speed float64, forward, back bool, maxSpeed, accel, friction, dt float64) float64 {
	switch {
	case forward && !back:
		speed = math.Min(speed+accel*dt, maxSpeed)
	case back && !forward:
		speed = math.Max(speed-accel*dt, -maxSpeed/2)
	default:
		if speed > 0 {
			speed = math.Max(0, speed-friction*dt)
		} else if speed < 0 {
			speed = math.Min(0, speed+friction*dt)
		}
	}
	return speed
}
