package profiler

import "sync"

// Topic names one of the notification streams a Registry publishes.
type Topic string

const (
	// TopicProfile delivers one event per timed call.
	TopicProfile Topic = "profile"
	// TopicThreshold delivers one event when an analyzed function's hot
	// value exceeds its minimum-time threshold, whether or not an
	// optimization follows.
	TopicThreshold Topic = "threshold"
	// TopicOptimization delivers one event when an optimization is applied.
	TopicOptimization Topic = "optimization"
)

// Event is implemented by all notification payloads.
type Event interface {
	EventTopic() Topic
}

// ProfileEvent reports one timed call.
type ProfileEvent struct {
	Name       string
	WrapperID  string
	DurationMs float64
	Args       []any
	CallCount  int
}

func (ProfileEvent) EventTopic() Topic { return TopicProfile }

// ThresholdEvent reports that a function was classified hot at analysis.
type ThresholdEvent struct {
	Name      string
	WrapperID string
	HotMs     float64
	MinTimeMs float64
}

func (ThresholdEvent) EventTopic() Topic { return TopicThreshold }

// OptimizationEvent reports that a function's active callee was replaced.
type OptimizationEvent struct {
	Name      string
	WrapperID string
	Kind      string
}

func (OptimizationEvent) EventTopic() Topic { return TopicOptimization }

// bus is a synchronous multi-subscriber publisher. Delivery happens
// in-line with the instrumented call: every subscriber runs before the
// wrapper returns its result, so subscribers must not assume they are
// non-blocking for the caller.
type bus struct {
	mu   sync.RWMutex
	next int
	subs map[Topic]map[int]func(Event)
}

func newBus() *bus {
	return &bus{subs: make(map[Topic]map[int]func(Event))}
}

func (b *bus) subscribe(topic Topic, fn func(Event)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func(Event))
	}
	b.subs[topic][id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs[topic], id)
		b.mu.Unlock()
	}
}

func (b *bus) publish(e Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs[e.EventTopic()]))
	for _, fn := range b.subs[e.EventTopic()] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
