package component

// Input is one tick of player intent. Held flags stay true while the key is
// down; the *Pressed flags are edges for this tick only.
type Input struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool

	// Look deltas in radians.
	LookYaw   float64
	LookPitch float64

	JumpPressed     bool
	Fire            bool
	ReloadPressed   bool
	SwitchPressed   bool
	InteractPressed bool
	GhostPressed    bool
	EditPressed     bool
	GrabPressed     bool
	DeletePressed   bool
}

var InputComponent = NewComponent[Input]()
