package mywaifulist

import (
	"errors"
	"fmt"

	"github.com/samber/mo"
)

// errZeroResult is what Get reports for a Result built without Ok or Fail
var errZeroResult = errors.New("mywaifulist: zero Result holds neither a value nor an error")

// Result is returned by every accessor: either a decoded value or a *Error, never both.
// The zero value is neither: IsOk and IsFailure are false and Value and Failure panic.
type Result[T any] struct {
	res mo.Result[T]
	set bool
}

// Ok builds a successful Result
func Ok[T any](value T) Result[T] {
	return Result[T]{res: mo.Ok(value), set: true}
}

// Fail builds a failed Result. A nil error is a programming mistake and panics.
func Fail[T any](err *Error) Result[T] {
	if err == nil {
		panic("mywaifulist: Fail called with nil error")
	}
	return Result[T]{res: mo.Err[T](err), set: true}
}

// IsOk reports whether the call succeeded
func (r Result[T]) IsOk() bool {
	return r.set && r.res.IsOk()
}

// IsFailure reports whether the call failed
func (r Result[T]) IsFailure() bool {
	return r.set && r.res.IsError()
}

// Value returns the decoded value. It panics when the Result is a failure.
func (r Result[T]) Value() T {
	r.mustBeSet()
	return r.res.MustGet()
}

// Failure returns the error. It panics when the Result is a success.
func (r Result[T]) Failure() *Error {
	r.mustBeSet()
	if r.res.IsOk() {
		panic("mywaifulist: Failure called on a successful result")
	}
	return r.res.Error().(*Error)
}

// Get unpacks the Result into the usual (value, error) pair
func (r Result[T]) Get() (T, error) {
	if !r.set {
		var zero T
		return zero, errZeroResult
	}
	if r.res.IsError() {
		var zero T
		return zero, r.Failure()
	}
	return r.res.MustGet(), nil
}

// String renders the populated variant, mostly for logs and test failures
func (r Result[T]) String() string {
	if !r.set {
		return "Result(unset)"
	}
	if r.res.IsError() {
		return fmt.Sprintf("Failure(%s)", r.res.Error())
	}
	return fmt.Sprintf("Success(%+v)", r.res.MustGet())
}

func (r Result[T]) mustBeSet() {
	if !r.set {
		panic(errZeroResult)
	}
}
