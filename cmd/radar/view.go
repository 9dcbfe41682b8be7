package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/common"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/component"
	"github.com/milk9111/cityfps/ecs/system"
	"github.com/milk9111/cityfps/sim"
)

// metersPerCell is the horizontal map scale. Terminal cells are about twice
// as tall as wide, so rows cover twice the distance.
const metersPerCell = 1.0

type cell struct {
	ch    rune
	style tcell.Style
}

// grid is a character raster of the map, independent of the screen so it
// can be inspected without a terminal.
type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i] = cell{ch: ' ', style: tcell.StyleDefault}
	}
	return g
}

func (g *grid) set(x, y int, ch rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = cell{ch: ch, style: style}
}

func (g *grid) at(x, y int) rune {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return 0
	}
	return g.cells[y*g.w+x].ch
}

func (g *grid) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, style)
	}
}

var roleGlyphs = map[collision.Role]cell{
	collision.RoleGround:  {ch: '.', style: tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)},
	collision.RoleRoad:    {ch: ':', style: tcell.StyleDefault.Foreground(tcell.ColorGray)},
	collision.RoleStatic:  {ch: '#', style: tcell.StyleDefault.Foreground(tcell.ColorSilver)},
	collision.RoleMovable: {ch: '+', style: tcell.StyleDefault.Foreground(tcell.ColorOrange)},
	collision.RoleVehicle: {ch: '=', style: tcell.StyleDefault.Foreground(tcell.ColorBlue)},
}

var enemyGlyphs = map[component.EnemyType]rune{
	component.EnemyRobot:  'R',
	component.EnemyGhost:  'G',
	component.EnemyZombie: 'Z',
	component.EnemyDemon:  'D',
}

var lootGlyphs = map[component.LootKind]rune{
	component.LootCoin:   '$',
	component.LootHat:    '^',
	component.LootPotion: '!',
}

// renderMap draws the level around the player into a w by h grid. The
// bottom two rows are left for the status bar.
func renderMap(s *sim.Simulation, w, h int) *grid {
	g := newGrid(w, h)
	tr := s.PlayerTransform()
	if tr == nil {
		return g
	}
	mapH := h - 2
	project := func(p common.Vec3) (int, int) {
		x := w/2 + int((p.X-tr.Position.X)/metersPerCell)
		y := mapH/2 + int((p.Z-tr.Position.Z)/(2*metersPerCell))
		return x, y
	}
	inMap := func(x, y int) bool { return y < mapH }

	for _, pass := range []collision.Role{collision.Surfaces, collision.Obstacles} {
		s.Collision().Each(func(_ ecs.Entity, role collision.Role, box common.Box) {
			if role&pass == 0 {
				return
			}
			glyph, ok := roleGlyphs[role]
			if !ok {
				return
			}
			x0, y0 := project(box.Min)
			x1, y1 := project(box.Max)
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					if inMap(x, y) {
						g.set(x, y, glyph.ch, glyph.style)
					}
				}
			}
		})
	}

	world := s.World()
	ecs.ForEach2(world, component.LootComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, loot *component.Loot, lt *component.Transform) {
		if !loot.Active {
			return
		}
		if x, y := project(lt.Position); inMap(x, y) {
			g.set(x, y, lootGlyphs[loot.Kind], tcell.StyleDefault.Foreground(tcell.ColorYellow))
		}
	})
	ecs.ForEach2(world, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, en *component.Enemy, et *component.Transform) {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		if en.State == component.StateDead {
			style = tcell.StyleDefault.Foreground(tcell.ColorDarkRed)
		}
		if flash, ok := ecs.Get(world, e, component.WhiteFlashComponent.Kind()); ok && flash.On() {
			style = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
		}
		if x, y := project(et.Position); inMap(x, y) {
			g.set(x, y, enemyGlyphs[en.Type], style)
		}
	})

	px, py := project(tr.Position)
	g.set(px, py, '@', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	aim := common.Forward(tr.Yaw).Scale(2 * metersPerCell)
	if ax, ay := project(tr.Position.Add(aim)); (ax != px || ay != py) && inMap(ax, ay) && g.at(ax, ay) != '@' {
		g.set(ax, ay, '*', tcell.StyleDefault.Foreground(tcell.ColorWhite))
	}
	return g
}

// termHUD keeps the latest stats and notices for the status rows.
type termHUD struct {
	mu      sync.Mutex
	stats   system.HUDStats
	message string
	until   time.Time
	now     func() time.Time
}

func newTermHUD() *termHUD {
	return &termHUD{now: time.Now}
}

func (t *termHUD) Show(stats system.HUDStats) {
	t.mu.Lock()
	t.stats = stats
	t.mu.Unlock()
}

func (t *termHUD) Notify(msg string, d time.Duration) {
	t.mu.Lock()
	t.message = msg
	t.until = t.now().Add(d)
	t.mu.Unlock()
}

func (t *termHUD) lines() (string, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.stats
	ammo := "inf"
	if !s.Unlimited {
		ammo = fmt.Sprintf("%d/%d", s.Ammo, s.MaxAmmo)
	}
	top := fmt.Sprintf("HP %.0f/%.0f  armor %.0f%%  $%d  kills %d  %s %s",
		s.Health, s.MaxHealth, s.Armor*100, s.Money, s.Kills, s.Weapon, ammo)
	if s.Reloading {
		top += " (reloading)"
	}

	var flags []string
	if s.Wave > 0 {
		flags = append(flags, fmt.Sprintf("wave %d %d/%d", s.Wave, s.WaveKilled, s.WaveTotal))
	}
	if s.Driving {
		flags = append(flags, fmt.Sprintf("driving %.0f", s.Speed))
	}
	if s.EditMode {
		flags = append(flags, "EDIT")
	}
	if s.Ghost {
		flags = append(flags, "GHOST")
	}
	if s.GameOver {
		flags = append(flags, "GAME OVER")
	}
	if t.message != "" && t.now().Before(t.until) {
		flags = append(flags, t.message)
	}
	return top, strings.Join(flags, "  ")
}

func draw(screen tcell.Screen, s *sim.Simulation, hud *termHUD) {
	w, h := screen.Size()
	if w <= 0 || h <= 2 {
		return
	}
	g := renderMap(s, w, h)
	top, bottom := hud.lines()
	g.text(0, h-2, top, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	g.text(0, h-1, bottom, tcell.StyleDefault.Foreground(tcell.ColorYellow))

	screen.Clear()
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			screen.SetContent(x, y, c.ch, nil, c.style)
		}
	}
	screen.Show()
}
