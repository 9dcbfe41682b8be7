package ecs

// Scheduler runs systems in a fixed order. The order is the per-tick
// ordering guarantee of the simulation.
type Scheduler struct {
	systems []System
	guard   func(System, func())
}

func NewScheduler(systems ...System) *Scheduler {
	copied := make([]System, 0, len(systems))
	for _, s := range systems {
		if s != nil {
			copied = append(copied, s)
		}
	}
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// SetGuard wraps every system update, e.g. to recover and log panics.
func (s *Scheduler) SetGuard(guard func(System, func())) {
	s.guard = guard
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		run := func() { system.Update(w) }
		if s.guard != nil {
			s.guard(system, run)
			continue
		}
		run()
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
