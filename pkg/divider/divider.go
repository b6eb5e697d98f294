// Package divider provides fallible integer division.
//
// Division never panics on its own: a zero divisor is reported through the
// returned Result. Callers decide how to handle the failure variant, either by
// inspecting it with Get, by supplying a fallback with UnwrapOr, or by forcing
// extraction with Unwrap when success is already guaranteed.
package divider

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDivisionByZero is reported when the divisor is zero.
	ErrDivisionByZero = errors.New("Division by zero")

	// ErrOverflow is reported by DivideChecked when the quotient is not representable.
	ErrOverflow = errors.New("Division overflow")
)

// Result is the outcome of a division: either a quotient or an error.
type Result struct {
	quotient int
	err      error
}

// Divide returns the quotient of dividend and divisor, truncated toward zero.
// If divisor is 0, the result carries ErrDivisionByZero.
func Divide(dividend, divisor int) Result {
	if divisor == 0 {
		return Result{err: ErrDivisionByZero}
	}
	return Result{quotient: dividend / divisor}
}

// DivideChecked behaves like Divide but also fails with ErrOverflow for
// math.MinInt / -1, whose quotient would otherwise wrap around.
func DivideChecked(dividend, divisor int) Result {
	if divisor == -1 && dividend == math.MinInt {
		return Result{err: ErrOverflow}
	}
	return Divide(dividend, divisor)
}

// Ok reports whether the division succeeded.
func (r Result) Ok() bool {
	return r.err == nil
}

// Err returns the failure, or nil on success.
func (r Result) Err() error {
	return r.err
}

// Get returns the quotient and the failure, if any.
func (r Result) Get() (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.quotient, nil
}

// Unwrap returns the quotient and panics with the error on failure.
func (r Result) Unwrap() int {
	if r.err != nil {
		panic(r.err)
	}
	return r.quotient
}

// UnwrapOr returns the quotient, or fallback on failure.
func (r Result) UnwrapOr(fallback int) int {
	if r.err != nil {
		return fallback
	}
	return r.quotient
}

func (r Result) String() string {
	if r.err != nil {
		return fmt.Sprintf("Err(%s)", r.err)
	}
	return fmt.Sprintf("Ok(%d)", r.quotient)
}
