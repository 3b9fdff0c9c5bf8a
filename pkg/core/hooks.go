package core

// Disposable is a resource released when its owning component unmounts.
type Disposable interface {
	Dispose()
}

// UseController creates a controller and registers it for automatic disposal.
// The controller will be disposed when the component unmounts.
//
// Example:
//
//	func newTicker(core.Props, any) core.Component {
//	    t := &ticker{}
//	    t.clock = core.UseController(t, func() *Clock { return NewClock() })
//	    return t
//	}
func UseController[C Disposable](c Component, create func() C) C {
	controller := create()
	c.base().OnDispose(func() {
		controller.Dispose()
	})
	return controller
}

// Managed holds a value outside the state map and schedules a re-render of
// its component when it changes.
//
// Managed is NOT thread-safe. It must only be accessed from the goroutine
// that drives the Renderer.
//
// Example:
//
//	type todo struct {
//	    core.ComponentBase
//	    items *core.Managed[[]string]
//	}
//
//	func newTodo(core.Props, any) core.Component {
//	    t := &todo{}
//	    t.items = core.NewManaged(t, []string(nil))
//	    return t
//	}
type Managed[T any] struct {
	base  *ComponentBase
	value T
}

// NewManaged creates a new managed value owned by c.
func NewManaged[T any](c Component, initial T) *Managed[T] {
	return &Managed[T]{
		base:  c.base(),
		value: initial,
	}
}

// Value returns the current value.
func (m *Managed[T]) Value() T {
	return m.value
}

// Set updates the value and schedules a re-render.
func (m *Managed[T]) Set(value T) {
	m.value = value
	m.base.ForceUpdate()
}

// Update applies a transformation to the current value and schedules a
// re-render.
func (m *Managed[T]) Update(transform func(T) T) {
	m.value = transform(m.value)
	m.base.ForceUpdate()
}
