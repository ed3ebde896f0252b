package profiler

import (
	"reflect"
	"runtime"
)

// The Register family wraps a typed function through a Registry and
// returns a callable with the identical signature. The wrapper captures
// its parameters (thresholds, memoization opt-in, purity verdict) at this
// moment; later SetThresholds calls do not reach it.

// RegisterI0O1 registers a zero-argument function.
func RegisterI0O1[O1 any](r *Registry, name string, fn func() O1, opts ...Option) func() O1 {
	w := r.newWrapper(name, func(args ...any) any {
		return fn()
	}, codePointer(fn), opts)
	return func() O1 {
		return castOut[O1](w.invoke(nil))
	}
}

// RegisterI1O1 registers a single-argument function.
func RegisterI1O1[I1, O1 any](r *Registry, name string, fn func(I1) O1, opts ...Option) func(I1) O1 {
	w := r.newWrapper(name, func(args ...any) any {
		return fn(args[0].(I1))
	}, codePointer(fn), opts)
	return func(i1 I1) O1 {
		return castOut[O1](w.invoke([]any{i1}))
	}
}

// RegisterI2O1 registers a two-argument function.
func RegisterI2O1[I1, I2, O1 any](r *Registry, name string, fn func(I1, I2) O1, opts ...Option) func(I1, I2) O1 {
	w := r.newWrapper(name, func(args ...any) any {
		return fn(args[0].(I1), args[1].(I2))
	}, codePointer(fn), opts)
	return func(i1 I1, i2 I2) O1 {
		return castOut[O1](w.invoke([]any{i1, i2}))
	}
}

// RegisterI3O1 registers a three-argument function.
func RegisterI3O1[I1, I2, I3, O1 any](r *Registry, name string, fn func(I1, I2, I3) O1, opts ...Option) func(I1, I2, I3) O1 {
	w := r.newWrapper(name, func(args ...any) any {
		return fn(args[0].(I1), args[1].(I2), args[2].(I3))
	}, codePointer(fn), opts)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return castOut[O1](w.invoke([]any{i1, i2, i3}))
	}
}

// The Wrap family is the one-shot convenience: a default-configured,
// throwaway Registry per function, named after the function's runtime
// symbol.

func WrapI0O1[O1 any](fn func() O1, opts ...Option) func() O1 {
	return RegisterI0O1(New(DefaultConfig()), funcName(fn), fn, opts...)
}

func WrapI1O1[I1, O1 any](fn func(I1) O1, opts ...Option) func(I1) O1 {
	return RegisterI1O1(New(DefaultConfig()), funcName(fn), fn, opts...)
}

func WrapI2O1[I1, I2, O1 any](fn func(I1, I2) O1, opts ...Option) func(I1, I2) O1 {
	return RegisterI2O1(New(DefaultConfig()), funcName(fn), fn, opts...)
}

func WrapI3O1[I1, I2, I3, O1 any](fn func(I1, I2, I3) O1, opts ...Option) func(I1, I2, I3) O1 {
	return RegisterI3O1(New(DefaultConfig()), funcName(fn), fn, opts...)
}

// castOut converts the untyped core result back to the frontend's return
// type, mapping an untyped nil to the zero value instead of panicking.
func castOut[O1 any](v any) O1 {
	if v == nil {
		var zero O1
		return zero
	}
	return v.(O1)
}

func codePointer(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

func funcName(fn any) string {
	if f := runtime.FuncForPC(codePointer(fn)); f != nil {
		return f.Name()
	}
	return "anonymous"
}
