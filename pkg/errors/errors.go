// Package errors provides structured error handling for the containers library.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindMissing indicates an element or key was absent where presence was required.
	KindMissing
	// KindIndex indicates a positional access beyond bounds.
	KindIndex
	// KindKeyIndex indicates a failure that is legitimately both a missing-element
	// and an index-out-of-range condition (OrderedSet.Pop and friends).
	KindKeyIndex
	// KindOrdering indicates keys that are not mutually comparable in a sorted context.
	KindOrdering
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindIndex:
		return "index"
	case KindKeyIndex:
		return "key-index"
	case KindOrdering:
		return "ordering"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel errors for classification through errors.Is. A KindKeyIndex error
// matches both ErrNotFound and ErrOutOfRange, so callers pattern-matching on
// either class still catch it.
var (
	// ErrNotFound reports an absent element or key where presence was required.
	ErrNotFound = &ContainerError{Kind: KindMissing, Err: errNotFound{}}
	// ErrOutOfRange reports a positional index beyond bounds.
	ErrOutOfRange = &ContainerError{Kind: KindIndex, Err: errOutOfRange{}}
	// ErrOrdering reports keys that do not share a total order.
	ErrOrdering = &ContainerError{Kind: KindOrdering, Err: errOrdering{}}
)

type errNotFound struct{}

func (errNotFound) Error() string { return "element not found" }

type errOutOfRange struct{}

func (errOutOfRange) Error() string { return "index out of range" }

type errOrdering struct{}

func (errOrdering) Error() string { return "keys are not comparable" }

// ContainerError represents a structured error in the containers library.
type ContainerError struct {
	// Op is the operation that failed (e.g., "containers.OrderedSet.Remove").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Key is the element or key involved, if applicable.
	Key any
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ContainerError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("[%s]: %v", e.Kind, e.Err)
	}
	if e.Key != nil {
		return fmt.Sprintf("%s [%s] key=%v: %v", e.Op, e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ContainerError) Unwrap() error {
	return e.Err
}

// Is classifies by kind so that sentinel matching survives wrapping.
// The combined key/index kind satisfies both classification checks.
func (e *ContainerError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindMissing || e.Kind == KindKeyIndex
	case ErrOutOfRange:
		return e.Kind == KindIndex || e.Kind == KindKeyIndex
	case ErrOrdering:
		return e.Kind == KindOrdering
	}
	return false
}

// NotFound builds a missing-element error for the given operation.
func NotFound(op string, key any) *ContainerError {
	return &ContainerError{Op: op, Kind: KindMissing, Key: key, Err: errNotFound{}}
}

// OutOfRange builds an index-out-of-range error for the given operation.
func OutOfRange(op string, index, length int) *ContainerError {
	return &ContainerError{
		Op:   op,
		Kind: KindIndex,
		Err:  fmt.Errorf("index %d out of range with length %d", index, length),
	}
}

// KeyIndex builds the combined key/index error raised by operations whose
// failure is describable as either a missing element or an invalid position.
func KeyIndex(op string, msg string) *ContainerError {
	return &ContainerError{Op: op, Kind: KindKeyIndex, Err: fmt.Errorf("%s", msg)}
}

// Ordering builds an ordering error for keys that cannot be compared.
func Ordering(op string, a, b any) *ContainerError {
	return &ContainerError{
		Op:   op,
		Kind: KindOrdering,
		Err:  fmt.Errorf("cannot order %T against %T", a, b),
	}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "registry.SceneRegistry.Update").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the containers library.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ContainerError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
