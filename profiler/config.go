package profiler

// Config carries the registry-wide defaults applied to every registration
// that does not override them.
type Config struct {
	// HotPercentile is the quantile of the analysis window compared against
	// MinTimeMs to classify a function as hot. Must be in (0, 1]; zero or
	// out-of-range values fall back to the default.
	HotPercentile float64
	// MinTimeMs is the hot threshold in milliseconds. Zero is valid and
	// makes every analyzed function hot; negative values fall back to the
	// default.
	MinTimeMs float64
	// SafeOptimizations gates optimization strategies that are not safe by
	// construction. The only implemented strategy, memoization, is safe
	// (it is only applied to functions judged pure), so the flag currently
	// changes no behavior. It exists so future unsafe strategies have a
	// switch to honor.
	SafeOptimizations bool
	// HistorySize bounds the per-function rolling sample history.
	HistorySize int
	// ProfileAfter defers timing until a function has been called this many
	// times. Zero starts observing immediately.
	ProfileAfter int
}

// DefaultConfig returns the documented baseline configuration.
func DefaultConfig() Config {
	return Config{
		HotPercentile:     0.95,
		MinTimeMs:         1,
		SafeOptimizations: true,
		HistorySize:       1000,
		ProfileAfter:      0,
	}
}

// withDefaults replaces invalid fields with their defaults. Explicit zeros
// that are meaningful (MinTimeMs, ProfileAfter) are kept.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HotPercentile <= 0 || c.HotPercentile > 1 {
		c.HotPercentile = d.HotPercentile
	}
	if c.MinTimeMs < 0 {
		c.MinTimeMs = d.MinTimeMs
	}
	if c.HistorySize <= 0 {
		c.HistorySize = d.HistorySize
	}
	if c.ProfileAfter < 0 {
		c.ProfileAfter = d.ProfileAfter
	}
	return c
}
