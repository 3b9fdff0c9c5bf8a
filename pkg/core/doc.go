// Package core provides the virtual-tree reconciler: descriptors, the
// component lifecycle and the diff that applies tree changes to a
// dom.Document.
//
// # Descriptors and records
//
// A [Node] is an immutable description of part of the UI, rebuilt on every
// render. Nodes must be built with [H], [El], [Text] or [Fragment]; a Node
// assembled as a struct literal is ignored, so data decoded from untrusted
// input can never be rendered as a tree.
//
// Each position in the rendered tree is backed by a [Record] that survives
// between renders. Records live in an arena owned by the [Renderer] and are
// addressed by generational handles, so a stale descriptor cannot reach a
// recycled record.
//
// # Components
//
// Stateless components are [Func] values; stateful ones are [Class] values
// whose New function returns a [Component] embedding [ComponentBase]:
//
//	var Counter = &core.Class{
//	    Name: "Counter",
//	    New: func(props core.Props, _ any) core.Component {
//	        c := &counter{}
//	        c.SetInitialState(core.State{"count": 0})
//	        return c
//	    },
//	}
//
// Lifecycle hooks are opt-in interfaces ([WillMounter], [DidMounter],
// [UpdateGate], [DidUpdater], ...). A panic in any hook is converted to an
// errors.LifecycleError and routed to the nearest enclosing error boundary:
// a class with DeriveStateFromError or an instance implementing
// [ErrorCatcher].
//
// # Rendering
//
//	doc := dom.NewDocument()
//	r := core.NewRenderer(doc, core.Options{})
//	err := r.Render(core.H(Counter.Type(), nil), nil)
//
// State changes schedule the component's record on the [RenderOwner];
// [Renderer.Flush] re-renders scheduled components shallowest first.
// Post-commit hooks (DidMount, DidUpdate) run from a [CommitQueue] once a
// pass has been fully applied.
//
// # Context
//
// [CreateContext] returns a channel whose Provider supplies a value to its
// subtree. Components that declare the channel as their ContextType receive
// the nearest provider's value and re-render when it changes, even if an
// ancestor in between vetoed its own update.
package core
