// Package outcome provides the result model shared by all storage writers.
//
// A writer operation reports one of four shapes: a plain result, a result
// with a non-fatal warning, a failure, or a failure that still carries the
// partial result produced before it. Multi-item operations collect one
// Outcome per input item into an Outcomes aggregate so that batch callers
// get a per-item report instead of an all-or-nothing failure.
package outcome

type kind int

const (
	kindResult kind = iota
	kindWarning
	kindError
	kindErrorAfter
)

// Outcome holds the result of a single writer operation.
// The zero value is not meaningful; use one of the constructors.
type Outcome[T any] struct {
	kind    kind
	value   T
	cause   error
	warning error
}

// Result returns a successful outcome holding value.
func Result[T any](value T) Outcome[T] {
	return Outcome[T]{kind: kindResult, value: value}
}

// Warning returns a successful outcome whose value is usable but where a
// non-fatal fault occurred along the way.
func Warning[T any](value T, cause error) Outcome[T] {
	return Outcome[T]{kind: kindWarning, value: value, warning: cause}
}

// Error returns a failed outcome holding the failure cause.
func Error[T any](cause error) Outcome[T] {
	return Outcome[T]{kind: kindError, cause: cause}
}

// ErrorAfter returns a failed outcome that preserves the partial value
// produced before the failure, so multi-stage processing does not lose
// prior progress.
func ErrorAfter[T any](cause error, partial T) Outcome[T] {
	return Outcome[T]{kind: kindErrorAfter, cause: cause, value: partial}
}

// OK reports whether the outcome carries a usable value.
func (o Outcome[T]) OK() bool {
	return o.kind == kindResult || o.kind == kindWarning
}

// Warned reports whether the outcome succeeded with a non-fatal fault.
func (o Outcome[T]) Warned() bool {
	return o.kind == kindWarning
}

// Result returns the value for fail-fast callers: the value and nil on
// success, the zero value and the captured cause on failure.
func (o Outcome[T]) Result() (T, error) {
	if o.OK() {
		return o.value, nil
	}
	var zero T
	return zero, o.cause
}

// Cause returns the failure cause, or nil for a successful outcome.
func (o Outcome[T]) Cause() error {
	return o.cause
}

// WarningCause returns the non-fatal cause recorded alongside a success,
// or nil if none.
func (o Outcome[T]) WarningCause() error {
	return o.warning
}

// Partial returns the partial value preserved by ErrorAfter. The second
// return is false unless the outcome is a failure-after-partial-success.
func (o Outcome[T]) Partial() (T, bool) {
	if o.kind == kindErrorAfter {
		return o.value, true
	}
	var zero T
	return zero, false
}
