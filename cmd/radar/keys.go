package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/cityfps/sim"
)

// Terminals report key presses but no releases, so a movement key counts as
// held for holdTime after its last repeat.
const (
	holdTime = 0.2
	turnStep = 0.12
)

type action int

const (
	actNone action = iota
	actForward
	actBack
	actLeft
	actRight
	actFire
	actTurnLeft
	actTurnRight
	actLookUp
	actLookDown
	actJump
	actReload
	actSwitch
	actInteract
	actGhost
	actEdit
	actGrab
	actDelete
	actEasier
	actHarder
	actQuit
)

var runeActions = map[rune]action{
	'w': actForward,
	's': actBack,
	'a': actLeft,
	'd': actRight,
	' ': actFire,
	'h': actTurnLeft,
	'l': actTurnRight,
	'k': actLookUp,
	'j': actLookDown,
	'J': actJump,
	'r': actReload,
	'q': actSwitch,
	'e': actInteract,
	'g': actGhost,
	'f': actGrab,
	'x': actDelete,
	'-': actEasier,
	'+': actHarder,
	'=': actHarder,
}

func keyAction(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyUp:
		return actForward
	case tcell.KeyDown:
		return actBack
	case tcell.KeyLeft:
		return actTurnLeft
	case tcell.KeyRight:
		return actTurnRight
	case tcell.KeyTab:
		return actEdit
	case tcell.KeyDelete:
		return actDelete
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyRune:
		return runeActions[ev.Rune()]
	}
	return actNone
}

// keyState folds key events into per-tick input.
type keyState struct {
	held  map[action]float64
	input sim.Input
}

func newKeyState() *keyState {
	return &keyState{held: make(map[action]float64)}
}

func (k *keyState) apply(a action) {
	switch a {
	case actForward, actBack, actLeft, actRight, actFire:
		k.held[a] = holdTime
	case actTurnLeft:
		k.input.LookYaw += turnStep
	case actTurnRight:
		k.input.LookYaw -= turnStep
	case actLookUp:
		k.input.LookPitch += turnStep
	case actLookDown:
		k.input.LookPitch -= turnStep
	case actJump:
		k.input.JumpPressed = true
	case actReload:
		k.input.ReloadPressed = true
	case actSwitch:
		k.input.SwitchPressed = true
	case actInteract:
		k.input.InteractPressed = true
	case actGhost:
		k.input.GhostPressed = true
	case actEdit:
		k.input.EditPressed = true
	case actGrab:
		k.input.GrabPressed = true
	case actDelete:
		k.input.DeletePressed = true
	}
}

// next returns the input for a tick of dt and clears the one-shot edges.
func (k *keyState) next(dt float64) sim.Input {
	in := k.input
	in.Forward = k.held[actForward] > 0
	in.Back = k.held[actBack] > 0
	in.Left = k.held[actLeft] > 0
	in.Right = k.held[actRight] > 0
	in.Fire = k.held[actFire] > 0

	for a, left := range k.held {
		left -= dt
		if left <= 0 {
			delete(k.held, a)
			continue
		}
		k.held[a] = left
	}
	k.input = sim.Input{}
	return in
}
