package system

import (
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/milk9111/cityfps/ecs"
)

// Guard runs one system update and turns a panic into a log line so the rest
// of the tick still runs. Install it with Scheduler.SetGuard.
func Guard(s ecs.System, run func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("system panic", "system", fmt.Sprintf("%T", s), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	run()
}

// guardEntity isolates a single entity's update inside a system.
func guardEntity(system string, e ecs.Entity, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("entity update panic", "system", system, "entity", e, "panic", r)
			ok = false
		}
	}()
	fn()
	return true
}
