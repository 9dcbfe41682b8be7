package component

// Wave is the spawn director state. It lives on a single director entity.
type Wave struct {
	Number     int
	Total      int
	Spawned    int
	Killed     int
	InProgress bool

	// AdvanceTimer counts down the gap between a completed wave and the next.
	AdvanceTimer float64

	Difficulty int
	Cap        int
	Multiplier float64
}

// Complete is true once every enemy of the wave has been killed.
func (w *Wave) Complete() bool {
	return w != nil && w.Total > 0 && w.Killed == w.Total
}

var WaveComponent = NewComponent[Wave]()
