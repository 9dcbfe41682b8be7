package system

import (
	"math"

	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
)

// EnemyAISystem runs perception and the behavior table for every live enemy.
type EnemyAISystem struct {
	shared *Shared
}

func NewEnemyAISystem(shared *Shared) *EnemyAISystem {
	return &EnemyAISystem{shared: shared}
}

func (s *EnemyAISystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()
	spec := s.shared.Tuning.Enemies

	base := aiContext{sys: s, world: w, spec: spec, dt: dt}
	if pe, p, ptr, ok := player(w); ok && !p.Dead {
		base.playerFound = true
		base.playerEnt = pe
		base.playerPos = ptr.Position
		base.playerEye = ptr.Position.Add(common.V(0, s.shared.Tuning.Player.EyeHeight, 0))
		if cam, ok := ecs.Get(w, pe, component.CameraComponent.Kind()); ok && !cam.Driving {
			base.playerEye = cam.Position
		}
	}

	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, en *component.Enemy, tr *component.Transform) {
		if !en.Alive() {
			return
		}
		guardEntity("enemy_ai", e, func() {
			ctx := base
			ctx.ent, ctx.enemy, ctx.tr = e, en, tr
			s.step(&ctx)
		})
	})
}

func (s *EnemyAISystem) step(ctx *aiContext) {
	en := ctx.enemy
	en.StateTimer += ctx.dt
	if en.AttackCooldown > 0 {
		en.AttackCooldown = math.Max(0, en.AttackCooldown-ctx.dt)
	}

	if ctx.playerFound {
		ctx.distance = ctx.tr.Position.FlatDist(ctx.playerPos)
	}

	if en.State != component.StateAttack {
		ctx.perceived = s.perceive(ctx)
		if ctx.perceived {
			if en.State.Passive() {
				s.shared.Enemies.Vocalize(ctx.ent, en.Type)
			}
			if ctx.distance <= ctx.spec.AttackRange {
				ctx.transition(component.StateAttack)
			} else {
				ctx.transition(component.StateChase)
			}
		}
	}

	ctx.runWhile()
}

// perceive checks range first and only then casts the line of sight ray.
func (s *EnemyAISystem) perceive(ctx *aiContext) bool {
	if !ctx.playerFound || ctx.distance > ctx.enemy.Stats.DetectionRange {
		return false
	}
	eye := ctx.tr.Position.Add(common.V(0, ctx.spec.EyeHeight, 0))
	return s.lineOfSight(ctx, eye, ctx.playerEye)
}

func (s *EnemyAISystem) lineOfSight(ctx *aiContext, from, to common.Vec3) bool {
	d := to.Sub(from)
	dist := d.Len()
	if dist == 0 {
		return true
	}
	var ignore []ecs.Entity
	if v := drivenVehicle(ctx.world, ctx.playerEnt); v != 0 {
		ignore = append(ignore, v)
	}
	hit, ok := s.shared.Collision.Raycast(from, d, dist, collision.Obstacles, ignore...)
	if !ok {
		return true
	}
	return hit.Distance >= dist-ctx.spec.SightTolerance
}

// moveEnemy steps toward target at speed, sliding along obstacles one axis at
// a time. The step never overshoots the target.
func (s *EnemyAISystem) moveEnemy(ctx *aiContext, target common.Vec3, speed float64) {
	pos := ctx.tr.Position
	to := target.Sub(pos).Flat()
	remaining := to.Len()
	if remaining == 0 || speed <= 0 {
		return
	}
	step := math.Min(speed*ctx.dt, remaining)
	delta := to.Normalize().Scale(step)
	ctx.tr.Yaw = common.YawTowards(pos, target)

	candidates := []common.Vec3{
		pos.Add(delta),
		pos.Add(common.V(delta.X, 0, 0)),
		pos.Add(common.V(0, 0, delta.Z)),
	}
	for _, next := range candidates {
		if next == pos {
			continue
		}
		if s.blocked(ctx, next) {
			continue
		}
		ctx.tr.Position = next
		s.shared.Collision.Move(ctx.ent, entity.EnemyBox(next, ctx.spec))
		return
	}
}

// blocked ignores the car the player is driving so enemies can close to
// attack range around it.
func (s *EnemyAISystem) blocked(ctx *aiContext, at common.Vec3) bool {
	var ignore []ecs.Entity
	if v := drivenVehicle(ctx.world, ctx.playerEnt); v != 0 {
		ignore = append(ignore, v)
	}
	hits := s.shared.Collision.OverlapsCircle(at, ctx.spec.Radius, ctx.spec.Height, collision.Obstacles, ignore...)
	for _, h := range hits {
		// Standing on top of something is not a collision.
		if at.Y >= h.Box.Max.Y-0.05 {
			continue
		}
		return true
	}
	return false
}
