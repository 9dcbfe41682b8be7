package system

import (
	"math"

	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/prefabs"
)

// aiContext is what a state handler sees for one enemy on one tick.
type aiContext struct {
	sys   *EnemyAISystem
	world *ecs.World
	ent   ecs.Entity
	enemy *component.Enemy
	tr    *component.Transform
	spec  prefabs.EnemiesSpec
	dt    float64

	playerFound bool
	playerEnt   ecs.Entity
	playerPos   common.Vec3
	playerEye   common.Vec3
	distance    float64
	perceived   bool
}

type Action func(ctx *aiContext)

type StateDef struct {
	OnEnter []Action
	While   []Action
	OnExit  []Action
}

// enemyStates is the behavior table. Every enemy type shares it; types only
// differ by the stat row copied at creation. It is filled in init because the
// handlers themselves transition through it.
var enemyStates map[component.AIState]StateDef

func init() {
	enemyStates = map[component.AIState]StateDef{
		component.StateIdle: {
			OnEnter: []Action{clearTarget, resetIdleTimer},
			While:   []Action{countdownToPatrol},
		},
		component.StatePatrol: {
			OnEnter: []Action{samplePatrolTarget},
			While:   []Action{walkToTarget},
		},
		component.StateChase: {
			While: []Action{pursuePlayer},
		},
		component.StateAttack: {
			While: []Action{facePlayer, attackPlayer},
		},
		component.StateDead: {},
	}
}

func (ctx *aiContext) transition(next component.AIState) {
	cur := ctx.enemy.State
	if cur == next || cur == component.StateDead {
		return
	}
	for _, a := range enemyStates[cur].OnExit {
		a(ctx)
	}
	ctx.enemy.State = next
	ctx.enemy.StateTimer = 0
	for _, a := range enemyStates[next].OnEnter {
		a(ctx)
	}
}

func (ctx *aiContext) runWhile() {
	state := ctx.enemy.State
	for _, a := range enemyStates[state].While {
		a(ctx)
		// A handler that changed state ends this tick's work for the old state.
		if ctx.enemy.State != state {
			return
		}
	}
}

func clearTarget(ctx *aiContext) {
	ctx.enemy.Target = nil
}

func resetIdleTimer(ctx *aiContext) {
	ctx.enemy.IdleTimer = ctx.spec.PatrolWait
}

func countdownToPatrol(ctx *aiContext) {
	ctx.enemy.IdleTimer -= ctx.dt
	if ctx.enemy.IdleTimer <= 0 {
		ctx.transition(component.StatePatrol)
	}
}

// samplePatrolTarget picks a uniform angle and a uniform radius around the
// spawn origin. Points bunch toward the center; that is intended.
func samplePatrolTarget(ctx *aiContext) {
	rng := ctx.sys.shared.Rand
	angle := rng.Float64() * 2 * math.Pi
	radius := rng.Float64() * ctx.spec.PatrolRadius
	t := ctx.enemy.Origin.Add(common.V(math.Cos(angle)*radius, 0, math.Sin(angle)*radius))
	t.Y = ctx.tr.Position.Y
	ctx.enemy.Target = &t
}

func walkToTarget(ctx *aiContext) {
	if ctx.enemy.Target == nil {
		samplePatrolTarget(ctx)
	}
	target := *ctx.enemy.Target
	if ctx.tr.Position.FlatDist(target) < ctx.spec.ArrivalDistance {
		ctx.transition(component.StateIdle)
		return
	}
	ctx.sys.moveEnemy(ctx, target, ctx.enemy.Stats.Speed)
	if ctx.tr.Position.FlatDist(target) < ctx.spec.ArrivalDistance {
		ctx.transition(component.StateIdle)
	}
}

func pursuePlayer(ctx *aiContext) {
	if !ctx.playerFound {
		ctx.transition(component.StatePatrol)
		return
	}
	if ctx.distance <= ctx.spec.AttackRange {
		ctx.transition(component.StateAttack)
		return
	}
	if !ctx.perceived && ctx.distance > ctx.spec.LoseInterestRange {
		ctx.transition(component.StatePatrol)
		return
	}
	ctx.sys.moveEnemy(ctx, ctx.playerPos, ctx.enemy.Stats.ChaseSpeed)
}

func facePlayer(ctx *aiContext) {
	if ctx.playerFound {
		ctx.tr.Yaw = common.YawTowards(ctx.tr.Position, ctx.playerPos)
	}
}

func attackPlayer(ctx *aiContext) {
	if !ctx.playerFound {
		ctx.transition(component.StatePatrol)
		return
	}
	if ctx.distance > 1.5*ctx.spec.AttackRange {
		ctx.transition(component.StateChase)
		return
	}
	if ctx.enemy.AttackCooldown > 0 {
		return
	}
	DamagePlayer(ctx.world, ctx.sys.shared, ctx.ent, ctx.enemy.Stats.Damage)
	ctx.enemy.AttackCooldown = 1 / ctx.enemy.Stats.AttackRate
}
