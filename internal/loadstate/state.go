// Package loadstate models the lifecycle of a one-shot remote load.
package loadstate

// Status identifies which variant a State holds
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is Idle, Loading, Loaded(value) or Failed(err). The zero value is Idle.
type State[T any] struct {
	status Status
	value  T
	err    error
}

// Idle returns a state for a load that has not started
func Idle[T any]() State[T] {
	return State[T]{}
}

// Loading returns a state for a load in flight
func Loading[T any]() State[T] {
	return State[T]{status: StatusLoading}
}

// Loaded returns a state holding a successful result
func Loaded[T any](v T) State[T] {
	return State[T]{status: StatusLoaded, value: v}
}

// Failed returns a state holding the load error
func Failed[T any](err error) State[T] {
	return State[T]{status: StatusFailed, err: err}
}

func (s State[T]) Status() Status { return s.status }

func (s State[T]) IsLoaded() bool { return s.status == StatusLoaded }

func (s State[T]) IsFailed() bool { return s.status == StatusFailed }

// Settled reports whether the load has finished, successfully or not
func (s State[T]) Settled() bool {
	return s.status == StatusLoaded || s.status == StatusFailed
}

// Value returns the loaded value and true, or the zero value and false
func (s State[T]) Value() (T, bool) {
	if s.status != StatusLoaded {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Err returns the failure, or nil for any other variant
func (s State[T]) Err() error {
	if s.status != StatusFailed {
		return nil
	}
	return s.err
}
