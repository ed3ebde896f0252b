package profiler

// settings is the per-wrapper parameter set, resolved once at wrap time:
// registry defaults, then overrides stored via SetThresholds, then
// registration-site options, last writer winning.
type settings struct {
	hotPercentile float64
	minTimeMs     float64
	historySize   int
	profileAfter  int
	memoize       bool
	pure          *bool
}

// Option overrides one wrapper parameter at registration time (or, stored
// through SetThresholds, for future registrations under a name).
type Option func(*settings)

// WithMemoize opts the function into memoization once it is classified hot.
func WithMemoize() Option {
	return func(s *settings) { s.memoize = true }
}

// WithMinTime overrides the hot threshold in milliseconds. Zero makes the
// function hot unconditionally; negative values clamp to zero.
func WithMinTime(ms float64) Option {
	return func(s *settings) {
		if ms < 0 {
			ms = 0
		}
		s.minTimeMs = ms
	}
}

// WithPercentile overrides the hot-detection quantile. Values outside
// (0, 1] are ignored.
func WithPercentile(p float64) Option {
	return func(s *settings) {
		if p <= 0 || p > 1 {
			return
		}
		s.hotPercentile = p
	}
}

// WithHistorySize overrides the rolling-history bound. Non-positive values
// are ignored.
func WithHistorySize(n int) Option {
	return func(s *settings) {
		if n <= 0 {
			return
		}
		s.historySize = n
	}
}

// WithProfileAfter overrides the lazy-activation call count. Negative
// values clamp to zero.
func WithProfileAfter(n int) Option {
	return func(s *settings) {
		if n < 0 {
			n = 0
		}
		s.profileAfter = n
	}
}

// WithPure supplies the caller's own purity verdict, bypassing the source
// scan entirely. This is the manual-but-honest escape hatch for functions
// whose source the heuristic cannot see or misjudges.
func WithPure(pure bool) Option {
	return func(s *settings) { s.pure = &pure }
}
