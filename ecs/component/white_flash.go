package component

// WhiteFlash renders the body full-bright while Remaining > 0. It is
// presentation state only.
type WhiteFlash struct {
	Remaining float64
}

func (f *WhiteFlash) On() bool {
	return f != nil && f.Remaining > 0
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()
