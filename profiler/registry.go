package profiler

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry is the process-facing facade: it creates wrappers, stores named
// configuration overrides, aggregates statistics across all wrapped
// functions and fans out notifications.
//
// Registering two functions under one name is permitted but makes the
// registry-level records alias under that key, last write winning. Callers
// should use unique names.
type Registry struct {
	cfg    Config
	logger *zap.Logger
	events *bus
	clock  func() time.Time

	mu            sync.RWMutex
	statistics    map[string]FunctionStatistics
	optimizations map[string]string
	overrides     map[string][]Option
	wrappers      map[string]*wrapper
}

// RegistryOption configures a Registry at construction time.
type RegistryOption func(*Registry)

// WithLogger replaces the default no-op logger.
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// New returns a Registry with invalid config fields replaced by their
// defaults.
func New(cfg Config, opts ...RegistryOption) *Registry {
	r := &Registry{
		cfg:           cfg.withDefaults(),
		logger:        zap.NewNop(),
		events:        newBus(),
		clock:         time.Now,
		statistics:    make(map[string]FunctionStatistics),
		optimizations: make(map[string]string),
		overrides:     make(map[string][]Option),
		wrappers:      make(map[string]*wrapper),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetThresholds stores overrides consulted by future registrations under
// name. Wrappers already created are unaffected: parameters are captured
// at wrap time, not read live. Configure before registering.
func (r *Registry) SetThresholds(name string, opts ...Option) {
	r.mu.Lock()
	r.overrides[name] = opts
	r.mu.Unlock()
}

// GetStatistics returns the snapshot of every analyzed function, sorted by
// name. Functions still cold or observing are absent.
func (r *Registry) GetStatistics() []FunctionStatistics {
	r.mu.RLock()
	out := make([]FunctionStatistics, 0, len(r.statistics))
	for _, s := range r.statistics {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Statistics returns the snapshot for one function, if it has been
// analyzed.
func (r *Registry) Statistics(name string) (FunctionStatistics, bool) {
	r.mu.RLock()
	s, ok := r.statistics[name]
	r.mu.RUnlock()
	return s, ok
}

// Optimizations returns the applied optimization kind per function name.
func (r *Registry) Optimizations() map[string]string {
	r.mu.RLock()
	out := make(map[string]string, len(r.optimizations))
	for k, v := range r.optimizations {
		out[k] = v
	}
	r.mu.RUnlock()
	return out
}

// History returns a call-ordered copy of the current rolling history of
// the named function, or nil when the name is unknown.
func (r *Registry) History(name string) []float64 {
	r.mu.RLock()
	w := r.wrappers[name]
	r.mu.RUnlock()
	if w == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.history.Snapshot()
}

// Subscribe registers fn for the given topic and returns its unsubscribe
// function. Delivery is synchronous and in-line with the instrumented
// call.
func (r *Registry) Subscribe(topic Topic, fn func(Event)) func() {
	return r.events.subscribe(topic, fn)
}

// settingsFor resolves the effective wrapper parameters for name.
func (r *Registry) settingsFor(name string, opts []Option) settings {
	s := settings{
		hotPercentile: r.cfg.HotPercentile,
		minTimeMs:     r.cfg.MinTimeMs,
		historySize:   r.cfg.HistorySize,
		profileAfter:  r.cfg.ProfileAfter,
	}
	r.mu.RLock()
	stored := r.overrides[name]
	r.mu.RUnlock()
	for _, opt := range stored {
		opt(&s)
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (r *Registry) storeStatistics(s FunctionStatistics) {
	r.mu.Lock()
	r.statistics[s.Name] = s
	r.mu.Unlock()
}

func (r *Registry) storeOptimization(name, kind string) {
	r.mu.Lock()
	r.optimizations[name] = kind
	r.mu.Unlock()
}

func (r *Registry) storeWrapper(w *wrapper) {
	r.mu.Lock()
	r.wrappers[w.name] = w
	r.mu.Unlock()
}
