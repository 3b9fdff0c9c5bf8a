// Package errors provides structured error handling for the vdom reconciler.
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
	// KindLifecycle indicates a component hook failed.
	KindLifecycle
	// KindTarget indicates the render target rejected a mutation.
	KindTarget
	// KindStructure indicates the tree and its backing records disagree.
	KindStructure
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates a configuration or input file error.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindLifecycle:
		return "lifecycle"
	case KindTarget:
		return "target"
	case KindStructure:
		return "structure"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ReconcileError represents a structured error raised while diffing or
// committing a tree.
type ReconcileError struct {
	// Op is the operation that failed (e.g., "core.patch").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Node names the descriptor type involved, if any.
	Node string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ReconcileError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s [%s] node=%s: %v", e.Op, e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "core.CommitQueue.Drain").
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

// LifecycleError represents a failure inside a component hook.
type LifecycleError struct {
	// Component is the name of the component type that failed.
	Component string
	// Hook is the lifecycle hook that failed (Render, DidMount, ...).
	Hook string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error. When the hook panicked with an error
	// value, Err holds it as well.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *LifecycleError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.%s(): %v", e.Component, e.Hook, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.%s(): %v", e.Component, e.Hook, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.%s()", e.Component, e.Hook)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the reconciler.
type ErrorHandler interface {
	// HandleError is called when a reconcile error is reported.
	HandleError(err *ReconcileError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleLifecycleError is called when a hook fails and no boundary
	// absorbed the failure.
	HandleLifecycleError(err *LifecycleError)
}
