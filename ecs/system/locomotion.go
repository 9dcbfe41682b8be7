package system

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
)

// LocomotionSystem moves the walking player: gravity, camera-relative intent,
// all-or-nothing horizontal collision, ground contact and double jump. It
// also keeps the first-person camera on the player's eye.
type LocomotionSystem struct {
	shared *Shared
}

func NewLocomotionSystem(shared *Shared) *LocomotionSystem {
	return &LocomotionSystem{shared: shared}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	e, p, tr, ok := player(w)
	if !ok || p.Dead {
		return
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		in = &component.Input{}
	}
	if in.GhostPressed {
		p.Ghost = !p.Ghost
		log.Info("ghost mode", "enabled", p.Ghost)
	}
	if ecs.Has(w, e, component.VehicleSessionComponent.Kind()) {
		return
	}

	spec := s.shared.Tuning.Player
	dt := w.Delta()

	limit := spec.PitchLimit * math.Pi / 180
	tr.Yaw += in.LookYaw
	tr.Pitch = common.Clamp(tr.Pitch+in.LookPitch, -limit, limit)

	p.Velocity.Y -= spec.Gravity * dt
	if in.JumpPressed && p.JumpCount < spec.MaxJumps {
		impulse := spec.JumpSpeed
		if p.JumpCount > 0 {
			impulse *= spec.SecondJumpScale
		}
		p.Velocity.Y = impulse
		p.JumpCount++
		p.Grounded = false
	}

	horizontal := Intent(in, tr.Yaw).Scale(spec.MoveSpeed)
	p.Velocity.X, p.Velocity.Z = horizontal.X, horizontal.Z
	move := horizontal.Scale(dt)
	if move != (common.Vec3{}) {
		next := tr.Position.Add(move)
		if p.Ghost || !s.blocked(next, tr.Position.Y) {
			tr.Position = next
		}
	}

	prevY := tr.Position.Y
	tr.Position.Y += p.Velocity.Y * dt

	top := math.Max(prevY, tr.Position.Y) + spec.GroundTolerance
	ground, ok := s.shared.Collision.GroundHeight(tr.Position.X, tr.Position.Z, top, collision.LevelVolumes)
	if !ok {
		ground = 0
	}
	if tr.Position.Y <= ground && p.Velocity.Y <= 0 {
		tr.Position.Y = ground
		p.Velocity.Y = 0
		p.JumpCount = 0
		p.Grounded = true
	} else {
		p.Grounded = false
	}

	if cam, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok {
		FirstPersonCamera(cam, tr, spec.EyeHeight)
	}
}

// blocked tests the player cylinder at next against obstacle boxes. Boxes the
// feet are resting on (within tolerance of the top) do not block.
func (s *LocomotionSystem) blocked(next common.Vec3, feetY float64) bool {
	spec := s.shared.Tuning.Player
	hits := s.shared.Collision.OverlapsCircle(next, spec.Radius, spec.Height, collision.Obstacles)
	for _, h := range hits {
		if math.Abs(feetY-h.Box.Max.Y) <= spec.GroundTolerance || feetY >= h.Box.Max.Y {
			continue
		}
		return true
	}
	return false
}

// Intent turns the four movement flags into a unit horizontal direction
// relative to yaw. Diagonals are normalized.
func Intent(in *component.Input, yaw float64) common.Vec3 {
	if in == nil {
		return common.Vec3{}
	}
	var f, r float64
	if in.Forward {
		f++
	}
	if in.Back {
		f--
	}
	if in.Right {
		r++
	}
	if in.Left {
		r--
	}
	if f == 0 && r == 0 {
		return common.Vec3{}
	}
	return common.Forward(yaw).Scale(f).Add(common.Right(yaw).Scale(r)).Normalize()
}

func FirstPersonCamera(cam *component.Camera, tr *component.Transform, eyeHeight float64) {
	cam.Driving = false
	cam.Position = tr.Position.Add(common.V(0, eyeHeight, 0))
	cam.Yaw = tr.Yaw
	cam.Pitch = tr.Pitch
	cam.LookAt = cam.Position.Add(common.Aim(tr.Yaw, tr.Pitch))
}
