package system

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/entity"
)

const vocalFade = 300 * time.Millisecond

// EnemyManager owns every enemy from creation to retirement. Enemies are
// addressed by entity handle; vocal cues are tracked per enemy so death can
// fade them.
type EnemyManager struct {
	shared *Shared
	vocals map[ecs.Entity]CueHandle

	spawned int
	killed  int
	retired int
}

func NewEnemyManager(shared *Shared) *EnemyManager {
	return &EnemyManager{shared: shared, vocals: make(map[ecs.Entity]CueHandle)}
}

// Spawn creates an enemy of typ at pos using the current stat table.
func (m *EnemyManager) Spawn(w *ecs.World, typ component.EnemyType, pos common.Vec3, wave int) (ecs.Entity, error) {
	spec := m.shared.Tuning.Enemies
	e, err := entity.NewEnemy(w, m.shared.Collision, spec, typ, pos, wave)
	if err != nil {
		return 0, err
	}
	m.shared.Visuals.Attach(e, typ.String(), common.V(spec.Radius*2, spec.Height, spec.Radius*2))
	m.spawned++
	log.Debug("enemy spawned", "entity", e, "type", typ, "x", pos.X, "z", pos.Z, "wave", wave)
	return e, nil
}

// Alive counts enemies that have not entered Dead.
func (m *EnemyManager) Alive(w *ecs.World) int {
	n := 0
	ecs.ForEach(w, component.EnemyComponent.Kind(), func(_ ecs.Entity, en *component.Enemy) {
		if en.Alive() {
			n++
		}
	})
	return n
}

// Vocalize starts the aggro cue and remembers it for fading on death.
func (m *EnemyManager) Vocalize(e ecs.Entity, typ component.EnemyType) {
	if prev, ok := m.vocals[e]; ok && prev != nil {
		prev.Fade(vocalFade)
	}
	if h := m.shared.Ports.Audio.PlayEnemyAttack(typ); h != nil {
		m.vocals[e] = h
	}
}

func (m *EnemyManager) fadeVocal(e ecs.Entity) {
	if h, ok := m.vocals[e]; ok {
		delete(m.vocals, e)
		if h != nil {
			h.Fade(vocalFade)
		}
	}
}

// TakeDamage applies amount to a live enemy. It is a no-op for dead enemies
// and for non-positive amounts. It reports whether this call killed the enemy.
func (m *EnemyManager) TakeDamage(w *ecs.World, e ecs.Entity, amount float64) bool {
	en, ok := ecs.Get(w, e, component.EnemyComponent.Kind())
	if !ok || !en.Alive() || amount <= 0 {
		return false
	}

	en.Health -= amount
	_ = ecs.Add(w, e, component.WhiteFlashComponent.Kind(), &component.WhiteFlash{
		Remaining: m.shared.Tuning.Enemies.FlashDuration,
	})

	if en.Health > 0 {
		return false
	}
	m.kill(w, e, en)
	return true
}

func (m *EnemyManager) kill(w *ecs.World, e ecs.Entity, en *component.Enemy) {
	en.Health = 0
	en.State = component.StateDead
	en.Target = nil
	en.StateTimer = 0

	m.shared.Ports.Audio.PlayEnemyDeath()
	m.fadeVocal(e)
	m.shared.Collision.Remove(e)

	_ = ecs.Add(w, e, component.DyingComponent.Kind(), &component.Dying{
		Duration: m.shared.Tuning.Enemies.DeathDuration,
	})

	var pos common.Vec3
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		pos = tr.Position
	}
	if _, p, _, ok := player(w); ok {
		p.Kills++
	}
	m.killed++

	w.Events().Push(ecs.Event{Type: EventEnemyKilled, Data: EnemyKilled{
		Entity:   e,
		Type:     en.Type,
		Position: pos,
		Wave:     en.Wave,
	}})
	log.Debug("enemy killed", "entity", e, "type", en.Type, "wave", en.Wave)
}

// Retire releases everything the enemy owns and destroys it.
func (m *EnemyManager) Retire(w *ecs.World, e ecs.Entity) {
	m.fadeVocal(e)
	m.shared.Visuals.Release(e)
	m.shared.Collision.Remove(e)
	if ecs.DestroyEntity(w, e) {
		m.retired++
	}
}

// Stats reports lifetime counters for debugging views.
func (m *EnemyManager) Stats() (spawned, killed, retired int) {
	if m == nil {
		return 0, 0, 0
	}
	return m.spawned, m.killed, m.retired
}

// DamagePlayer applies enemy damage through armor. Effective damage is
// damage*100/(100+armor); health is clamped to [0, max] and reaching zero
// ends the game.
func DamagePlayer(w *ecs.World, shared *Shared, source ecs.Entity, damage float64) float64 {
	_, p, _, ok := player(w)
	if !ok || p.Dead || damage <= 0 {
		return 0
	}
	effective := damage * 100 / (100 + p.Armor)
	p.Health = common.Clamp(p.Health-effective, 0, p.MaxHealth)
	shared.Ports.Audio.PlayPlayerHurt()
	if p.Health <= 0 {
		p.Dead = true
		log.Info("player died", "kills", p.Kills, "money", p.Money)
	}
	w.Events().Push(ecs.Event{Type: EventPlayerDamaged, Data: PlayerDamaged{
		Source:    source,
		Raw:       damage,
		Effective: effective,
		Health:    p.Health,
	}})
	return effective
}
