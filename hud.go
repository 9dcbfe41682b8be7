package main

import (
	"fmt"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/cityfps/ecs/system"
	"golang.org/x/image/font/basicfont"
)

const notifyShort = 1500 * time.Millisecond

type notice struct {
	msg     string
	expires time.Time
}

// HUD is the on-screen overlay. The simulation pushes stats and notices
// into it; Refresh copies them into the widgets once per frame.
type HUD struct {
	UI *ebitenui.UI

	mu      sync.Mutex
	stats   system.HUDStats
	notices []notice
	now     func() time.Time

	vitals  *widget.Text
	weapon  *widget.Text
	wave    *widget.Text
	status  *widget.Text
	message *widget.Text
}

func hudFace() *ebtext.Face {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	return &face
}

func NewHUD() *HUD {
	h := &HUD{now: time.Now}
	face := hudFace()
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	amber := color.NRGBA{R: 0xff, G: 0xc8, B: 0x40, A: 0xff}

	text := func(clr color.Color) *widget.Text {
		return widget.NewText(widget.TextOpts.Text("", face, clr))
	}
	h.vitals = text(white)
	h.weapon = text(white)
	h.wave = text(white)
	h.status = text(amber)
	h.message = text(amber)

	corner := func(hp, vp widget.AnchorLayoutPosition, children ...*widget.Text) *widget.Container {
		c := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(4),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 16, Right: 16}),
			)),
			widget.ContainerOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: hp, VerticalPosition: vp}),
			),
		)
		for _, ch := range children {
			c.AddChild(ch)
		}
		return c
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(corner(widget.AnchorLayoutPositionStart, widget.AnchorLayoutPositionEnd, h.vitals, h.status))
	root.AddChild(corner(widget.AnchorLayoutPositionEnd, widget.AnchorLayoutPositionEnd, h.weapon))
	root.AddChild(corner(widget.AnchorLayoutPositionEnd, widget.AnchorLayoutPositionStart, h.wave))
	root.AddChild(corner(widget.AnchorLayoutPositionCenter, widget.AnchorLayoutPositionStart, h.message))

	h.UI = &ebitenui.UI{Container: root}
	return h
}

func (h *HUD) Show(stats system.HUDStats) {
	h.mu.Lock()
	h.stats = stats
	h.mu.Unlock()
}

func (h *HUD) Notify(msg string, d time.Duration) {
	h.mu.Lock()
	h.notices = append(h.notices, notice{msg: msg, expires: h.now().Add(d)})
	h.mu.Unlock()
}

// Refresh drops expired notices and rewrites the widget labels.
func (h *HUD) Refresh() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	live := h.notices[:0]
	for _, n := range h.notices {
		if now.Before(n.expires) {
			live = append(live, n)
		}
	}
	h.notices = live

	s := h.stats
	h.vitals.Label = vitalsLine(s)
	h.weapon.Label = weaponLine(s)
	h.wave.Label = waveLine(s)
	h.status.Label = statusLine(s)

	msgs := make([]string, 0, len(h.notices))
	for _, n := range h.notices {
		msgs = append(msgs, n.msg)
	}
	h.message.Label = strings.Join(msgs, "\n")
}

func vitalsLine(s system.HUDStats) string {
	line := fmt.Sprintf("HP %3.0f/%.0f", s.Health, s.MaxHealth)
	if s.Armor > 0 {
		line += fmt.Sprintf("  ARMOR %.0f%%", s.Armor*100)
	}
	return line + fmt.Sprintf("  $%d  KILLS %d", s.Money, s.Kills)
}

func weaponLine(s system.HUDStats) string {
	if s.Driving {
		return fmt.Sprintf("SPEED %.0f", s.Speed)
	}
	ammo := "inf"
	if !s.Unlimited {
		ammo = fmt.Sprintf("%d/%d", s.Ammo, s.MaxAmmo)
	}
	line := fmt.Sprintf("%s  %s", strings.ToUpper(s.Weapon), ammo)
	if s.Reloading {
		line += fmt.Sprintf("  reloading %.0f%%", s.ReloadProgress*100)
	}
	return line
}

func waveLine(s system.HUDStats) string {
	if s.Wave == 0 {
		return fmt.Sprintf("ENEMIES %d", s.Enemies)
	}
	return fmt.Sprintf("WAVE %d  %d/%d  ENEMIES %d", s.Wave, s.WaveKilled, s.WaveTotal, s.Enemies)
}

func statusLine(s system.HUDStats) string {
	var parts []string
	if s.GameOver {
		parts = append(parts, "GAME OVER")
	}
	if s.EditMode {
		parts = append(parts, "EDIT")
		if s.Holding {
			parts = append(parts, "holding (C copies)")
		}
	}
	if s.Ghost {
		parts = append(parts, "GHOST")
	}
	return strings.Join(parts, "  ")
}
