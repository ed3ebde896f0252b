package profiler_test

import (
	"sync"
	"testing"
	"time"

	"github.com/hotpath-go/hotpath/profiler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances a fixed step on every read, so every timed call
// measures exactly one step.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{now: time.Unix(0, 0), step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *stepClock) setStep(step time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = step
}

func newTestRegistry(step time.Duration, cfg profiler.Config) (*profiler.Registry, *stepClock) {
	reg := profiler.New(cfg)
	clock := newStepClock(step)
	profiler.SetClock(reg, clock.Now)
	return reg, clock
}

func TestWrapper_ColdBelowActivationThreshold(t *testing.T) {
	reg, _ := newTestRegistry(2*time.Millisecond, profiler.DefaultConfig())
	double := profiler.RegisterI1O1(reg, "double", func(n int) int { return n * 2 },
		profiler.WithProfileAfter(10))

	for i := 0; i < 9; i++ {
		require.Equal(t, 2*i, double(i))
	}

	assert.Empty(t, reg.GetStatistics())
	assert.Empty(t, reg.History("double"))
}

func TestWrapper_AnalyzesAfterActivationPlusWindow(t *testing.T) {
	reg, _ := newTestRegistry(2*time.Millisecond, profiler.DefaultConfig())
	double := profiler.RegisterI1O1(reg, "double", func(n int) int { return n * 2 },
		profiler.WithProfileAfter(10))

	// 10 cold calls, then 100 observed ones fill the analysis window.
	for i := 0; i < 110; i++ {
		double(i)
	}

	got, ok := reg.Statistics("double")
	require.True(t, ok)
	assert.Equal(t, 110, got.Count)
	assert.Equal(t, 2.0, got.Median)
	assert.Equal(t, 100, len(got.History))
}

func TestWrapper_SyntheticDurationStatistics(t *testing.T) {
	reg, _ := newTestRegistry(3*time.Millisecond, profiler.DefaultConfig())
	id := profiler.RegisterI1O1(reg, "identity", func(n int) int { return n })

	for i := 0; i < 99; i++ {
		id(i)
	}
	assert.Empty(t, reg.GetStatistics(), "no snapshot before the window fills")

	id(99)

	stats := reg.GetStatistics()
	require.Len(t, stats, 1)
	got := stats[0]
	assert.Equal(t, "identity", got.Name)
	assert.Equal(t, 100, got.Count)
	assert.Equal(t, 3.0, got.Min)
	assert.Equal(t, 3.0, got.Median)
	assert.Equal(t, 3.0, got.Hot)
	assert.Equal(t, 3.0, got.Max)
	// constant samples collapse the histogram to one full bucket
	require.Len(t, got.Histogram, 1)
	assert.Equal(t, 100, got.Histogram[0].Count)
	assert.Greater(t, got.Window.Duration(), time.Duration(0))
}

func TestRegistry_GetStatisticsSortedByName(t *testing.T) {
	reg, _ := newTestRegistry(time.Millisecond, profiler.DefaultConfig())
	b := profiler.RegisterI0O1(reg, "bravo", func() int { return 1 })
	a := profiler.RegisterI0O1(reg, "alpha", func() int { return 2 })

	for i := 0; i < 100; i++ {
		b()
		a()
	}

	stats := reg.GetStatistics()
	require.Len(t, stats, 2)
	assert.Equal(t, "alpha", stats[0].Name)
	assert.Equal(t, "bravo", stats[1].Name)
}

func TestWrapper_MemoizesHotPureFunction(t *testing.T) {
	reg, _ := newTestRegistry(2*time.Millisecond, profiler.DefaultConfig())

	calls := 0
	sum := profiler.RegisterI2O1(reg, "sum", func(a, b int) int {
		calls++
		return a + b
	}, profiler.WithMemoize(), profiler.WithMinTime(0))

	for i := 0; i < 100; i++ {
		require.Equal(t, 5, sum(2, 3))
	}
	require.Equal(t, 100, calls)
	require.Equal(t, "memoized", reg.Optimizations()["sum"])

	// served from cache now
	require.Equal(t, 5, sum(2, 3))
	assert.Equal(t, 100, calls)

	// argument order still distinguishes keys
	require.Equal(t, 5, sum(3, 2))
	assert.Equal(t, 101, calls)
	require.Equal(t, 5, sum(3, 2))
	assert.Equal(t, 101, calls)
}

func TestWrapper_ThresholdWithoutOptInStaysUnoptimized(t *testing.T) {
	reg, _ := newTestRegistry(5*time.Millisecond, profiler.DefaultConfig())

	var thresholds, optimizations int
	reg.Subscribe(profiler.TopicThreshold, func(profiler.Event) { thresholds++ })
	reg.Subscribe(profiler.TopicOptimization, func(profiler.Event) { optimizations++ })

	calls := 0
	inc := profiler.RegisterI1O1(reg, "inc", func(n int) int {
		calls++
		return n + 1
	})

	for i := 0; i < 101; i++ {
		inc(7)
	}

	assert.Equal(t, 1, thresholds, "hot function fires threshold exactly once")
	assert.Zero(t, optimizations)
	assert.Empty(t, reg.Optimizations())
	assert.Equal(t, 101, calls, "callee still invoked after analysis")
}

func TestWrapper_ImpureFunctionIsNotMemoized(t *testing.T) {
	reg, _ := newTestRegistry(5*time.Millisecond, profiler.DefaultConfig())

	calls := 0
	stamp := profiler.RegisterI0O1(reg, "stamp", func() int64 {
		calls++
		return time.Now().UnixNano()
	}, profiler.WithMemoize(), profiler.WithMinTime(0))

	for i := 0; i < 101; i++ {
		stamp()
	}

	assert.Empty(t, reg.Optimizations())
	assert.Equal(t, 101, calls)
}

func TestWrapper_WithPureOverridesHeuristic(t *testing.T) {
	reg, _ := newTestRegistry(5*time.Millisecond, profiler.DefaultConfig())

	calls := 0
	// The comment below trips the textual scan; the explicit verdict wins.
	square := profiler.RegisterI1O1(reg, "square", func(n int) int {
		// unrelated to time.Now, honest
		calls++
		return n * n
	}, profiler.WithMemoize(), profiler.WithMinTime(0), profiler.WithPure(true))

	for i := 0; i < 100; i++ {
		square(4)
	}
	require.Equal(t, "memoized", reg.Optimizations()["square"])

	square(4)
	assert.Equal(t, 100, calls)
}

func TestWrapper_BelowThresholdIsLeftAlone(t *testing.T) {
	reg, _ := newTestRegistry(time.Millisecond, profiler.DefaultConfig())

	var thresholds int
	reg.Subscribe(profiler.TopicThreshold, func(profiler.Event) { thresholds++ })

	slow := profiler.RegisterI0O1(reg, "cheap", func() int { return 0 },
		profiler.WithMemoize(), profiler.WithMinTime(50))

	for i := 0; i < 100; i++ {
		slow()
	}

	assert.Zero(t, thresholds)
	assert.Empty(t, reg.Optimizations())
	_, analyzed := reg.Statistics("cheap")
	assert.True(t, analyzed, "statistics still publish below the threshold")
}

func TestRegistry_SetThresholdsIsConfigureBeforeRegister(t *testing.T) {
	reg, _ := newTestRegistry(5*time.Millisecond, profiler.DefaultConfig())

	var thresholds int
	reg.Subscribe(profiler.TopicThreshold, func(profiler.Event) { thresholds++ })

	// stored override applies to the future registration
	reg.SetThresholds("quiet", profiler.WithMinTime(100))
	quiet := profiler.RegisterI0O1(reg, "quiet", func() int { return 1 })
	for i := 0; i < 100; i++ {
		quiet()
	}
	assert.Zero(t, thresholds)

	// a wrapper created first never sees a later override
	loud := profiler.RegisterI0O1(reg, "loud", func() int { return 2 })
	reg.SetThresholds("loud", profiler.WithMinTime(100))
	for i := 0; i < 100; i++ {
		loud()
	}
	assert.Equal(t, 1, thresholds)
}

func TestRegistry_HistoryIsBoundedAndOrdered(t *testing.T) {
	reg, clock := newTestRegistry(time.Millisecond, profiler.DefaultConfig())
	nop := profiler.RegisterI0O1(reg, "nop", func() int { return 0 },
		profiler.WithHistorySize(5))

	for i := 0; i < 100; i++ {
		nop()
	}
	clock.setStep(2 * time.Millisecond)
	for i := 0; i < 3; i++ {
		nop()
	}
	clock.setStep(9 * time.Millisecond)
	for i := 0; i < 2; i++ {
		nop()
	}

	got := reg.History("nop")
	assert.Equal(t, []float64{2, 2, 2, 9, 9}, got)
	assert.NotContains(t, got, 1.0, "oldest samples are evicted first")
}

func TestRegistry_ProfileEventsDeliverInline(t *testing.T) {
	reg, _ := newTestRegistry(4*time.Millisecond, profiler.DefaultConfig())

	var events []profiler.ProfileEvent
	unsubscribe := reg.Subscribe(profiler.TopicProfile, func(e profiler.Event) {
		events = append(events, e.(profiler.ProfileEvent))
	})

	add := profiler.RegisterI2O1(reg, "add", func(a, b int) int { return a + b })
	add(1, 2)
	add(3, 4)

	require.Len(t, events, 2)
	assert.Equal(t, "add", events[0].Name)
	assert.Equal(t, 4.0, events[0].DurationMs)
	assert.Equal(t, []any{1, 2}, events[0].Args)
	assert.Equal(t, 1, events[0].CallCount)
	assert.Equal(t, 2, events[1].CallCount)

	unsubscribe()
	add(5, 6)
	assert.Len(t, events, 2)
}

func TestRegistry_DuplicateNameLastWriteWins(t *testing.T) {
	reg, _ := newTestRegistry(time.Millisecond, profiler.DefaultConfig())

	first := profiler.RegisterI0O1(reg, "dup", func() int { return 1 })
	second := profiler.RegisterI0O1(reg, "dup", func() int { return 2 })

	for i := 0; i < 100; i++ {
		first()
	}
	for i := 0; i < 50; i++ {
		second()
	}

	// both wrappers keep working independently
	assert.Equal(t, 1, first())
	assert.Equal(t, 2, second())
	// registry-level history aliases to the most recent registration
	assert.Len(t, reg.History("dup"), 51)
}

func TestWrapper_CalleePanicPropagatesUnmeasured(t *testing.T) {
	reg, _ := newTestRegistry(time.Millisecond, profiler.DefaultConfig())
	boom := profiler.RegisterI1O1(reg, "boom", func(n int) int {
		if n == 0 {
			panic("division by zero ahead")
		}
		return 100 / n
	})

	assert.Equal(t, 50, boom(2))
	assert.Panics(t, func() { boom(0) })
	assert.Len(t, reg.History("boom"), 1, "panicking call records no sample")
}

func TestConfig_ZeroFieldsFallBackToDefaults(t *testing.T) {
	reg := profiler.New(profiler.Config{})
	clock := newStepClock(5 * time.Millisecond)
	profiler.SetClock(reg, clock.Now)

	nop := profiler.RegisterI0O1(reg, "nop", func() int { return 0 })
	for i := 0; i < 100; i++ {
		nop()
	}

	got, ok := reg.Statistics("nop")
	require.True(t, ok, "zero ProfileAfter starts observing immediately")
	assert.Equal(t, 5.0, got.Hot, "zero HotPercentile defaults to 0.95")
}

func TestWrapI2O1_OneShotConvenience(t *testing.T) {
	calls := 0
	sum := profiler.WrapI2O1(func(a, b int) int {
		calls++
		return a + b
	}, profiler.WithMemoize(), profiler.WithMinTime(0))

	for i := 0; i < 150; i++ {
		require.Equal(t, 5, sum(2, 3))
	}
	assert.LessOrEqual(t, calls, 101)
}
