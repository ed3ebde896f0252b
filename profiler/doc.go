// Package profiler instruments functions at call time and, for hot
// side-effect-free functions, transparently swaps in a memoizing callee.
//
// Callers wrap a function once through a Registry and thereafter call the
// wrapper exactly as they would the original:
//
//	reg := profiler.New(profiler.DefaultConfig())
//	fib = profiler.RegisterI1O1(reg, "fib", fib, profiler.WithMemoize())
//
// Each wrapper walks a small state machine: Cold (untimed fast path until
// the lazy-activation threshold), Observing (every call timed into a
// rolling history and a one-shot 100-sample analysis buffer), Analyzed
// (order statistics published to the Registry, exactly once), and
// optionally Optimized (active callee replaced by a memoizing wrapper when
// the hot-percentile latency exceeds the configured minimum, the caller
// opted in, and the purity heuristic allows it).
//
// Analysis happens once per function for the process lifetime; the input
// distribution is never re-evaluated. Memoization safety rests on the
// purity package's textual heuristic, which can misjudge; callers can
// override it per registration with WithPure.
package profiler
