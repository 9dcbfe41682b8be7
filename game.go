package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/cityfps/config"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/system"
	"github.com/milk9111/cityfps/levels"
	"github.com/milk9111/cityfps/prefabs"
	"github.com/milk9111/cityfps/sim"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tickRate = 1.0 / 60
)

type Game struct {
	sim      *sim.Simulation
	settings config.Settings

	input   *Input
	scene   *Scene
	hud     *HUD
	pauseUI *ebitenui.UI
	watcher *prefabs.Watcher

	paused     bool
	quit       bool
	difficulty int
	clipboard  bool
}

func NewGame(settings config.Settings, ports system.Ports, scene *Scene, hud *HUD) (*Game, error) {
	level, err := loadLevel(settings.Level)
	if err != nil {
		log.Error("level unavailable, starting empty", "level", settings.Level, "err", err)
	}

	s, err := sim.New(sim.Options{
		Level:      level,
		Ports:      ports,
		Seed:       settings.Seed,
		Difficulty: settings.Difficulty,
	})
	if err != nil {
		return nil, err
	}
	if settings.Script != "" {
		if err := s.RunScriptFile(settings.Script); err != nil {
			log.Error("startup script failed", "script", settings.Script, "err", err)
		}
	}

	g := &Game{
		sim:        s,
		settings:   settings,
		input:      NewInput(),
		scene:      scene,
		hud:        hud,
		difficulty: system.ClampDifficulty(settings.Difficulty),
	}
	g.pauseUI = NewPauseUI(g)

	if w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts")); err != nil {
		log.Debug("prefab hot reload off", "err", err)
	} else {
		g.watcher = w
	}

	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", "err", err)
	} else {
		g.clipboard = true
	}
	return g, nil
}

func loadLevel(name string) (*levels.Layout, error) {
	if _, err := os.Stat(name); err == nil {
		return levels.LoadFile(name)
	}
	return levels.LoadOrEmpty(name)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	in := g.input.Sample(tickRate)
	g.sim.Tick(tickRate, in)

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyHeldProp()
	}

	g.hud.Refresh()
	g.hud.UI.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	var held ecs.Entity
	if p := g.sim.Player(); p != nil {
		held = ecs.Entity(p.Held)
	}
	g.scene.Draw(screen, g.sim.World(), g.sim.Collision(), g.sim.PlayerEntity(), held)
	g.hud.UI.Draw(screen)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		return
	}
	g.input.Reset()
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
}

func (g *Game) setDifficulty(level int) {
	g.difficulty = system.ClampDifficulty(level)
	g.sim.SetDifficulty(g.difficulty)
}

// pollWatcher applies prefab edits saved while the game runs.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if !prefabs.IsSpecFile(path) {
				log.Debug("script changed", "path", path)
				continue
			}
			if err := g.sim.Reload(); err != nil {
				log.Error("prefab reload failed", "path", path, "err", err)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Warn("prefab watcher", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) copyHeldProp() {
	b, err := g.sim.HeldPropYAML()
	if err != nil {
		return
	}
	if !g.clipboard {
		log.Info("held prop", "yaml", string(b))
		return
	}
	clipboard.Write(clipboard.FmtText, b)
	g.hud.Notify("Prop copied", notifyShort)
}

// exportLayout writes the live level, edits included, next to the shipped
// levels.
func (g *Game) exportLayout() (string, error) {
	lvl := g.sim.Snapshot()
	if lvl == nil {
		return "", errors.New("no level")
	}
	b, err := levels.Encode(lvl, levels.FormatYAML)
	if err != nil {
		return "", err
	}
	path := filepath.Join(levels.Dir, fmt.Sprintf("%s.edited.yaml", lvl.Name))
	if err := os.MkdirAll(levels.Dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	log.Info("layout exported", "path", path, "props", len(lvl.Props))
	return path, nil
}
