package component

// Dying runs the fixed-length death animation. The entity is retired when
// Elapsed reaches Duration.
type Dying struct {
	Elapsed  float64
	Duration float64
}

func (d *Dying) Progress() float64 {
	if d == nil || d.Duration <= 0 {
		return 1
	}
	p := d.Elapsed / d.Duration
	if p > 1 {
		return 1
	}
	return p
}

var DyingComponent = NewComponent[Dying]()
