package core

import (
	"maps"
	"sync"
)

// Component is a component instance. Embed ComponentBase to satisfy the
// unexported half of the interface:
//
//	type counter struct {
//	    core.ComponentBase
//	}
//
//	func (c *counter) Render(props core.Props, state core.State, _ any) *core.Node {
//	    return core.El("span", nil, fmt.Sprint(state["count"]))
//	}
//
// Lifecycle hooks are optional; a component opts into one by implementing
// the matching interface below.
type Component interface {
	Render(props Props, state State, context any) *Node
	base() *ComponentBase
}

// WillMounter runs before the first render of a component that does not
// derive state from props.
type WillMounter interface {
	WillMount()
}

// DidMounter runs after the pass that mounted the component commits.
type DidMounter interface {
	DidMount()
}

// PropsReceiver runs when an update brings a different props object and
// the component does not derive state from props.
type PropsReceiver interface {
	WillReceiveProps(next Props, context any)
}

// UpdateGate can veto a re-render. It is not consulted for forced updates.
type UpdateGate interface {
	ShouldUpdate(next Props, nextState State, context any) bool
}

// WillUpdater runs before an update render.
type WillUpdater interface {
	WillUpdate(next Props, nextState State, context any)
}

// Snapshotter captures a value before an update commits; the value is passed
// to DidUpdate.
type Snapshotter interface {
	SnapshotBeforeUpdate(prevProps Props, prevState State) any
}

// DidUpdater runs after the pass that updated the component commits.
type DidUpdater interface {
	DidUpdate(prevProps Props, prevState State, snapshot any)
}

// ChildContextProvider contributes entries to the context seen by the
// component's subtree.
type ChildContextProvider interface {
	ChildContext() map[any]any
}

// WillUnmounter runs before the component's subtree is torn down.
type WillUnmounter interface {
	WillUnmount()
}

// ErrorCatcher turns a component into an error boundary for its subtree.
type ErrorCatcher interface {
	DidCatch(err error)
}

// ComponentBase holds the committed props, state and context of a component
// and schedules re-renders.
type ComponentBase struct {
	props     Props
	state     State
	nextState State
	context   any

	record   *Record
	renderer *Renderer

	disposers []func()
	disposed  bool
	mu        sync.Mutex
}

func (b *ComponentBase) base() *ComponentBase { return b }

// Props returns the committed props.
func (b *ComponentBase) Props() Props { return b.props }

// State returns the committed state.
func (b *ComponentBase) State() State { return b.state }

// Context returns the committed context value.
func (b *ComponentBase) Context() any { return b.context }

// Record returns the record the component is mounted at, or nil.
func (b *ComponentBase) Record() *Record { return b.record }

// SetInitialState sets state without scheduling anything. Call it from a
// Class constructor.
func (b *ComponentBase) SetInitialState(s State) {
	b.state = s
	b.nextState = nil
}

// SetState merges update into the pending state and schedules a re-render.
// Safe to call before mount and after unmount (only the merge happens).
//
// SetState is NOT thread-safe. It must only be called from the goroutine
// that drives the Renderer.
func (b *ComponentBase) SetState(update State) {
	b.UpdateState(func(State, Props) State { return update })
}

// UpdateState merges the result of fn, called with the pending state and
// the committed props, and schedules a re-render.
func (b *ComponentBase) UpdateState(fn func(pending State, props Props) State) {
	if b.nextState == nil || sameMap(b.nextState, b.state) {
		b.nextState = cloneState(b.state)
	}
	if fn != nil {
		maps.Copy(b.nextState, fn(b.nextState, b.props))
	}
	b.enqueue()
}

// ForceUpdate schedules a re-render that skips ShouldUpdate.
func (b *ComponentBase) ForceUpdate() {
	if b.record != nil {
		b.record.flags |= FlagForceUpdate
	}
	b.enqueue()
}

// OnDispose registers a cleanup function to run when the component is
// unmounted. Returns an unregister function. Registering after unmount runs
// cleanup immediately.
func (b *ComponentBase) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disposed {
		cleanup()
		return func() {}
	}

	index := len(b.disposers)
	b.disposers = append(b.disposers, cleanup)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if index < len(b.disposers) {
			b.disposers[index] = nil
		}
	}
}

// IsDisposed reports whether the component has been unmounted.
func (b *ComponentBase) IsDisposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

func (b *ComponentBase) runDisposers() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disposed {
		return
	}
	b.disposed = true

	for i := len(b.disposers) - 1; i >= 0; i-- {
		if b.disposers[i] != nil {
			b.disposers[i]()
		}
	}
	b.disposers = nil
}

func (b *ComponentBase) enqueue() {
	if b.record == nil || b.renderer == nil || !b.record.mounted() {
		return
	}
	b.record.flags |= FlagDirty
	b.renderer.owner.Schedule(b.record)
}

// Func is a stateless component: a render function of props and context.
type Func struct {
	Name        string
	Render      func(props Props, context any) *Node
	ContextType *ContextChannel
}

// Type returns the descriptor type for f.
func (f *Func) Type() Type {
	return Type{kind: KindFunction, fn: f}
}

// funcInstance adapts a Func to the Component interface.
type funcInstance struct {
	ComponentBase
	fn *Func
}

func (c *funcInstance) Render(props Props, _ State, context any) *Node {
	if c.fn.Render == nil {
		return nil
	}
	return c.fn.Render(props, context)
}

// Class is a stateful component type.
type Class struct {
	Name string
	// New constructs an instance for the given initial props and context.
	New func(props Props, context any) Component
	// DeriveStateFromProps, when set, computes a state patch before every
	// render and suppresses WillMount and WillReceiveProps.
	DeriveStateFromProps func(props Props, state State) State
	// DeriveStateFromError, when set, makes the class an error boundary
	// whose state is patched with the result.
	DeriveStateFromError func(err error) State
	ContextType          *ContextChannel
}

// Type returns the descriptor type for c.
func (c *Class) Type() Type {
	return Type{kind: KindClass, class: c}
}

func cloneState(s State) State {
	out := make(State, len(s))
	maps.Copy(out, s)
	return out
}
