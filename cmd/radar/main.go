// Command radar plays the simulation in a terminal as a top-down map.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/cityfps/audio"
	"github.com/milk9111/cityfps/config"
	"github.com/milk9111/cityfps/ecs/system"
	"github.com/milk9111/cityfps/levels"
	"github.com/milk9111/cityfps/sim"
)

const frameRate = 30

func main() {
	settings, err := config.Load(".env", os.Args[1:])
	if err != nil {
		log.Fatal("bad settings", "err", err)
	}
	settings.ApplyLogging()

	// The terminal belongs to the map; logs go to a file.
	if f, err := os.Create("radar.log"); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	level, err := levels.LoadOrEmpty(settings.Level)
	if err != nil {
		log.Error("level unavailable, starting empty", "level", settings.Level, "err", err)
	}

	hud := newTermHUD()
	sound := audio.Open(settings.Audio, settings.Volume)
	if sink, ok := sound.(*audio.Sink); ok {
		defer sink.Close()
	}

	s, err := sim.New(sim.Options{
		Level:      level,
		Seed:       settings.Seed,
		Difficulty: settings.Difficulty,
		Ports:      system.Ports{Audio: sound, HUD: hud},
	})
	if err != nil {
		log.Fatal("cannot start", "err", err)
	}
	if settings.Script != "" {
		if err := s.RunScriptFile(settings.Script); err != nil {
			log.Error("startup script failed", "script", settings.Script, "err", err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal("terminal", "err", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal("terminal", "err", err)
	}
	defer screen.Fini()

	run(screen, s, hud, system.ClampDifficulty(settings.Difficulty))
}

func run(screen tcell.Screen, s *sim.Simulation, hud *termHUD, difficulty int) {
	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	keys := newKeyState()
	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				a := keyAction(ev)
				switch a {
				case actQuit:
					return
				case actEasier, actHarder:
					if a == actEasier {
						difficulty--
					} else {
						difficulty++
					}
					difficulty = system.ClampDifficulty(difficulty)
					s.SetDifficulty(difficulty)
					hud.Notify(fmt.Sprintf("difficulty %d", difficulty), 2*time.Second)
				default:
					keys.apply(a)
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Tick(dt, keys.next(dt))
			draw(screen, s, hud)
		}
	}
}
