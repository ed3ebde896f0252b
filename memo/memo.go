// Package memo wraps functions with an argument-keyed result cache.
//
// Cache keys preserve argument order and distinguish dynamic types: the
// number 1 and the string "1" never share an entry. Comparable arguments
// key directly by value; non-comparable arguments must implement
// fmt.Stringer and are keyed by a type-tagged digest of their canonical
// string form.
//
// Memoization assumes purity. Wrapping an impure function trades
// correctness for speed; that judgement belongs to the caller (or to the
// purity package's heuristic).
package memo

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Func is the untyped call shape shared with the profiler core.
type Func func(args ...any) any

// Memoized is a memoizing wrapper around a single function.
type Memoized struct {
	fn     Func
	table  trie[any]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Wrap returns a memoizing wrapper around fn. Concurrent first calls with
// the same arguments may both invoke fn; both results are stored and, fn
// being pure, interchangeable.
func Wrap(fn Func) *Memoized {
	return &Memoized{fn: fn, table: newTrie[any]()}
}

// Call returns the cached result for args, invoking the underlying
// function only on a miss.
func (m *Memoized) Call(args ...any) any {
	keys := make([]any, len(args))
	for i, arg := range args {
		keys[i] = keyFor(arg)
	}

	if v, ok := m.table.load(keys); ok {
		m.hits.Add(1)
		return v
	}
	m.misses.Add(1)
	v := m.fn(args...)
	m.table.store(keys, v)
	return v
}

// Hits reports how many calls were served from cache.
func (m *Memoized) Hits() uint64 { return m.hits.Load() }

// Misses reports how many calls invoked the underlying function.
func (m *Memoized) Misses() uint64 { return m.misses.Load() }

// hashedKey keys a non-comparable Stringer argument. The dynamic type tag
// keeps different types with equal textual forms apart.
type hashedKey struct {
	typ string
	sum uint64
}

type nilKey struct{}

func keyFor(arg any) any {
	if arg == nil {
		return nilKey{}
	}
	if reflect.ValueOf(arg).Comparable() {
		return arg
	}
	if s, ok := arg.(fmt.Stringer); ok {
		return hashedKey{typ: fmt.Sprintf("%T", arg), sum: xxhash.Sum64String(s.String())}
	}
	panic(fmt.Sprintf("memo: argument of type %T is neither comparable nor a fmt.Stringer", arg))
}

// MemoizeI1O1 memoizes a typed single-argument function.
func MemoizeI1O1[I1, O1 any](fn func(I1) O1) func(I1) O1 {
	m := Wrap(func(args ...any) any {
		return fn(args[0].(I1))
	})
	return func(i1 I1) O1 {
		return m.Call(i1).(O1)
	}
}

// MemoizeI2O1 memoizes a typed two-argument function.
func MemoizeI2O1[I1, I2, O1 any](fn func(I1, I2) O1) func(I1, I2) O1 {
	m := Wrap(func(args ...any) any {
		return fn(args[0].(I1), args[1].(I2))
	})
	return func(i1 I1, i2 I2) O1 {
		return m.Call(i1, i2).(O1)
	}
}

// MemoizeI3O1 memoizes a typed three-argument function.
func MemoizeI3O1[I1, I2, I3, O1 any](fn func(I1, I2, I3) O1) func(I1, I2, I3) O1 {
	m := Wrap(func(args ...any) any {
		return fn(args[0].(I1), args[1].(I2), args[2].(I3))
	})
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return m.Call(i1, i2, i3).(O1)
	}
}
