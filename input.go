package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/cityfps/sim"
)

const (
	mouseSensitivity = 0.0025
	stickLookSpeed   = 2.5
	stickDeadzone    = 0.2
)

// Input samples keyboard, mouse and the first gamepad once per frame.
type Input struct {
	lastX, lastY int
	primed       bool
}

func NewInput() *Input {
	return &Input{}
}

// Sample builds one tick of intent. dt scales the stick look rate.
func (i *Input) Sample(dt float64) sim.Input {
	var in sim.Input

	in.Forward = ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	in.Back = ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	in.Left = ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	in.Right = ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)

	in.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Fire = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.ReloadPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	in.SwitchPressed = inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyDigit1) || inpututil.IsKeyJustPressed(ebiten.KeyDigit2)
	in.InteractPressed = inpututil.IsKeyJustPressed(ebiten.KeyE)
	in.GhostPressed = inpututil.IsKeyJustPressed(ebiten.KeyG)
	in.EditPressed = inpututil.IsKeyJustPressed(ebiten.KeyTab)
	in.GrabPressed = inpututil.IsKeyJustPressed(ebiten.KeyF) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	in.DeletePressed = inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)

	x, y := ebiten.CursorPosition()
	if i.primed {
		in.LookYaw = -float64(x-i.lastX) * mouseSensitivity
		in.LookPitch = -float64(y-i.lastY) * mouseSensitivity
	}
	i.lastX, i.lastY, i.primed = x, y, true

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if lx < -stickDeadzone {
			in.Left = true
		}
		if lx > stickDeadzone {
			in.Right = true
		}
		if ly < -stickDeadzone {
			in.Forward = true
		}
		if ly > stickDeadzone {
			in.Back = true
		}

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			in.LookYaw -= rx * stickLookSpeed * dt
			in.LookPitch -= ry * stickLookSpeed * dt
		}

		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.Fire = in.Fire || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.ReloadPressed = in.ReloadPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		in.SwitchPressed = in.SwitchPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
		in.InteractPressed = in.InteractPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
	}

	return in
}

// Reset forgets the last cursor position so a pause does not turn the view.
func (i *Input) Reset() {
	i.primed = false
}
