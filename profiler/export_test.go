package profiler

import "time"

// SetClock replaces the registry's time source so tests can feed wrappers
// synthetic durations.
func SetClock(r *Registry, fn func() time.Time) {
	r.clock = fn
}
