package main

import (
	"errors"
	"image"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/cityfps/assets"
	"github.com/milk9111/cityfps/audio"
	"github.com/milk9111/cityfps/config"
	"github.com/milk9111/cityfps/ecs/system"
)

func main() {
	settings, err := config.Load(".env", os.Args[1:])
	if err != nil {
		log.Fatal("bad settings", "err", err)
	}
	settings.ApplyLogging()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("cityfps")

	// Images are decoded off the draw goroutine; the scene uploads them.
	library := assets.NewLibrary(func(img image.Image) any { return img })
	library.Preload(assets.Models()...)

	sound := audio.Open(settings.Audio, settings.Volume)
	if sink, ok := sound.(*audio.Sink); ok {
		defer sink.Close()
	}

	scene := NewScene(library)
	hud := NewHUD()
	game, err := NewGame(settings, system.Ports{
		Scene:  scene,
		Assets: library,
		Audio:  sound,
		HUD:    hud,
	}, scene, hud)
	if err != nil {
		log.Fatal("cannot start", "err", err)
	}
	defer game.Close()

	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("game stopped", "err", err)
	}
}
