package profiler

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"

	"github.com/hotpath-go/hotpath/memo"
	"github.com/hotpath-go/hotpath/purity"
	"github.com/hotpath-go/hotpath/shared/ring"
	"github.com/hotpath-go/hotpath/stats"
)

// analysisWindow is the number of timed samples consumed, exactly once, to
// derive a function's permanent statistics snapshot.
const analysisWindow = 100

// histogramBins is the bucket count of the snapshot histogram.
const histogramBins = 10

// OptimizationMemoized tags a wrapper whose active callee was replaced by
// a memoizing one.
const OptimizationMemoized = "memoized"

type wrapperState int

const (
	stateCold wrapperState = iota
	stateObserving
	stateAnalyzed
	stateOptimized
)

func (s wrapperState) String() string {
	switch s {
	case stateCold:
		return "cold"
	case stateObserving:
		return "observing"
	case stateAnalyzed:
		return "analyzed"
	case stateOptimized:
		return "optimized"
	default:
		return "invalid"
	}
}

// wrapper owns the per-function instrumentation state: call counter,
// analysis buffer, rolling history and the active-callee slot. All of it
// is guarded by a single mutex; callers may invoke one wrapper from many
// goroutines.
type wrapper struct {
	id       string
	name     string
	registry *Registry
	logger   *zap.Logger
	set      settings
	verdict  purity.Verdict

	mu          sync.Mutex
	state       wrapperState
	calls       int
	original    memo.Func
	callee      memo.Func
	buffer      []float64
	history     *ring.Ring[float64]
	windowStart time.Time
}

// newWrapper resolves the effective settings for name and builds a wrapper
// in its initial state. The purity scan runs once, here, against the
// original function, never against the memoized callee.
func (r *Registry) newWrapper(name string, fn memo.Func, pc uintptr, opts []Option) *wrapper {
	set := r.settingsFor(name, opts)

	w := &wrapper{
		id:       uuid.New().String(),
		name:     name,
		registry: r,
		logger:   r.logger,
		set:      set,
		state:    stateObserving,
		original: fn,
		callee:   fn,
		buffer:   make([]float64, 0, analysisWindow),
		history:  ring.New[float64](set.historySize),
	}
	if set.profileAfter > 0 {
		w.state = stateCold
	}

	if set.pure != nil {
		w.verdict = purity.Impure
		if *set.pure {
			w.verdict = purity.Pure
		}
	} else if set.memoize {
		w.verdict = purity.Inspect(pc)
	}

	r.storeWrapper(w)
	w.logger.Debug("registered function",
		zap.String("name", name),
		zap.String("wrapperId", w.id),
		zap.Stringer("state", w.state),
		zap.Bool("memoize", set.memoize),
		zap.String("purity", w.verdict.String()),
	)
	return w
}

// invoke is the wrapper's call path. Cold calls dispatch untimed; observed
// calls time the active callee and record the sample. A callee panic
// propagates unrecovered and records nothing.
func (w *wrapper) invoke(args []any) any {
	w.mu.Lock()
	if w.state == stateCold {
		w.calls++
		if w.calls >= w.set.profileAfter {
			w.state = stateObserving
			w.logger.Debug("activated profiling",
				zap.String("name", w.name),
				zap.String("wrapperId", w.id),
				zap.Int("calls", w.calls),
			)
		}
		callee := w.callee
		w.mu.Unlock()
		return callee(args...)
	}
	callee := w.callee
	w.mu.Unlock()

	start := w.registry.clock()
	out := callee(args...)
	elapsed := float64(w.registry.clock().Sub(start)) / float64(time.Millisecond)

	for _, e := range w.record(elapsed, args) {
		w.registry.events.publish(e)
	}
	return out
}

// record updates counters, history and the analysis buffer under the
// wrapper mutex and returns the events to publish once the lock is
// released. Observers run outside the critical section but still before
// the instrumented call returns.
func (w *wrapper) record(elapsed float64, args []any) []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls++
	w.history.Push(elapsed)

	events := []Event{ProfileEvent{
		Name:       w.name,
		WrapperID:  w.id,
		DurationMs: elapsed,
		Args:       args,
		CallCount:  w.calls,
	}}

	if w.state != stateObserving {
		return events
	}

	if w.windowStart.IsZero() {
		w.windowStart = w.registry.clock()
	}
	w.buffer = append(w.buffer, elapsed)
	if len(w.buffer) == analysisWindow {
		events = append(events, w.analyzeLocked()...)
	}
	return events
}

// analyzeLocked consumes the full analysis buffer exactly once: it derives
// the permanent statistics snapshot, publishes it to the registry, and
// decides the optimization transition in the same instant. Caller holds
// w.mu.
func (w *wrapper) analyzeLocked() []Event {
	summary := stats.Summarize(w.buffer)
	hot := stats.Percentile(w.buffer, w.set.hotPercentile)

	snapshot := FunctionStatistics{
		Name:      w.name,
		Min:       summary.Min,
		Median:    summary.Median,
		Max:       summary.Max,
		Hot:       hot,
		Count:     w.calls,
		Histogram: stats.Histogram(w.buffer, histogramBins),
		History:   w.history.Snapshot(),
		Window:    timespan.BetweenTimes(w.windowStart, w.registry.clock()),
	}
	w.registry.storeStatistics(snapshot)
	w.state = stateAnalyzed

	w.logger.Debug("analyzed function",
		zap.String("name", w.name),
		zap.String("wrapperId", w.id),
		zap.Float64("medianMs", snapshot.Median),
		zap.Float64("hotMs", hot),
		zap.Int("calls", w.calls),
	)

	if hot <= w.set.minTimeMs {
		return nil
	}

	events := []Event{ThresholdEvent{
		Name:      w.name,
		WrapperID: w.id,
		HotMs:     hot,
		MinTimeMs: w.set.minTimeMs,
	}}

	if !w.set.memoize || w.verdict != purity.Pure {
		return events
	}

	// The indirection cell only ever moves forward: once swapped, the
	// memoized callee stays for the process lifetime.
	w.callee = memo.Wrap(w.original).Call
	w.state = stateOptimized
	w.registry.storeOptimization(w.name, OptimizationMemoized)
	w.logger.Debug("applied optimization",
		zap.String("name", w.name),
		zap.String("wrapperId", w.id),
		zap.String("kind", OptimizationMemoized),
	)

	return append(events, OptimizationEvent{
		Name:      w.name,
		WrapperID: w.id,
		Kind:      OptimizationMemoized,
	})
}
