package core

import (
	"go.uber.org/zap"

	"github.com/go-drift/vdom/pkg/dom"
)

// Hooks are optional instrumentation callbacks. All run synchronously on
// the rendering goroutine.
type Hooks struct {
	// BeforeDiff runs before a descriptor is diffed or mounted.
	BeforeDiff func(n *Node)
	// AfterDiff runs after a descriptor was diffed or mounted successfully.
	AfterDiff func(n *Node)
	// BeforeRender runs just before a component's Render.
	BeforeRender func(rec *Record)
	// Commit runs before each post-commit callback.
	Commit func(rec *Record, hook string)
	// Unmount runs before a descriptor's position is torn down.
	Unmount func(n *Node)
}

// Options configure a Renderer.
type Options struct {
	Hooks Hooks
	// Props writes props to render-target nodes. Defaults to DOMProps.
	Props PropSynchronizer
	// Boundary receives caught failures. Defaults to walking up to the
	// nearest component error boundary.
	Boundary ErrorBoundary
	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Renderer reconciles descriptor trees into a dom.Document.
//
// A Renderer is NOT thread-safe. Render, Flush and the component methods
// that schedule work must be called from one goroutine.
type Renderer struct {
	doc       *dom.Document
	records   arena
	roots     map[*dom.Node]*Node
	owner     *RenderOwner
	hooks     Hooks
	props     PropSynchronizer
	boundary  ErrorBoundary
	logger    *zap.Logger
	unhandled []error
}

// NewRenderer creates a Renderer writing to doc.
func NewRenderer(doc *dom.Document, opts Options) *Renderer {
	r := &Renderer{
		doc:    doc,
		roots:  make(map[*dom.Node]*Node),
		owner:  NewRenderOwner(),
		hooks:  opts.Hooks,
		props:  opts.Props,
		logger: opts.Logger,
	}
	if r.props == nil {
		r.props = DOMProps{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.boundary = opts.Boundary
	if r.boundary == nil {
		r.boundary = treeBoundary{r: r}
	}
	return r
}

// Document returns the render target.
func (r *Renderer) Document() *dom.Document {
	return r.doc
}

// Owner returns the scheduler of pending component re-renders.
func (r *Renderer) Owner() *RenderOwner {
	return r.owner
}

// Records returns the number of live records.
func (r *Renderer) Records() int {
	return r.records.len()
}

// Record returns the record backing a bound descriptor.
func (r *Renderer) Record(n *Node) (*Record, bool) {
	if n == nil {
		return nil, false
	}
	return r.records.get(n.handle)
}

// Root returns the root fragment last rendered into container, the
// document root when nil.
func (r *Renderer) Root(container *dom.Node) *Node {
	if container == nil {
		container = r.doc.Root()
	}
	return r.roots[container]
}

// Render reconciles node into container, the document root when nil. The
// first call for a container mounts; later calls diff against the previous
// tree. Scheduled re-renders are flushed before returning. Errors no
// boundary absorbed are returned joined.
func (r *Renderer) Render(node *Node, container *dom.Node) error {
	if container == nil {
		container = r.doc.Root()
	}
	isSvg := container.Namespace() == "svg"
	root := Fragment(nil, node)
	q := &CommitQueue{}
	if old, ok := r.roots[container]; ok {
		r.Patch(root, old, EmptyContext(), isSvg, q)
	} else {
		r.mount(root, nil, container, EmptyContext(), isSvg, q)
		for _, d := range domNodes(root) {
			container.AppendChild(d)
		}
	}
	if _, ok := r.records.get(root.handle); ok {
		r.roots[container] = root
	}
	r.commit(q)
	return r.Flush()
}

// Unmount tears down the tree rendered into container.
func (r *Renderer) Unmount(container *dom.Node) error {
	if container == nil {
		container = r.doc.Root()
	}
	root, ok := r.roots[container]
	if !ok {
		return nil
	}
	delete(r.roots, container)
	r.unmount(root, false)
	return r.takeUnhandled()
}

// Flush re-renders every scheduled component, shallowest first, until no
// work remains. Each batch commits before the next is taken.
func (r *Renderer) Flush() error {
	for {
		batch := r.owner.take()
		if len(batch) == 0 {
			break
		}
		q := &CommitQueue{}
		for _, rec := range batch {
			if !rec.mounted() || rec.flags&(FlagDirty|FlagForceUpdate) == 0 {
				continue
			}
			r.rerender(rec, q)
		}
		r.commit(q)
	}
	return r.takeUnhandled()
}

// rerender runs the lifecycle of a component that scheduled itself and
// reconciles its output in place.
func (r *Renderer) rerender(rec *Record, q *CommitQueue) {
	old := rec.node
	if old == nil {
		return
	}
	if r.hooks.BeforeDiff != nil {
		r.hooks.BeforeDiff(old)
	}
	out, err := r.renderComponent(nil, rec, rec.context, q)
	if err == nil && !out.skip {
		next := old.clone()
		next.handle = old.handle
		err = r.reconcileChildren(rec.parentDom, out.children, next, old, out.context, rec.isSvg, q, r.DomSibling(old, 0))
		if err == nil {
			next.dom = firstDom(next.children)
			r.replaceInParent(rec, old, next)
			rec.node = next
			r.updateParentDom(rec)
		}
	}
	if err != nil {
		old.renderID = 0
		rec.renderID = 0
		r.catchError(err, old, nil)
		return
	}
	if r.hooks.AfterDiff != nil {
		r.hooks.AfterDiff(rec.node)
	}
}

// replaceInParent swaps the descriptor at rec's position in its parent's
// child list so sibling lookups see the new one.
func (r *Renderer) replaceInParent(rec *Record, old, next *Node) {
	if rec.parent == nil || rec.parent.node == nil {
		return
	}
	siblings := rec.parent.node.children
	for i, s := range siblings {
		if s == old {
			siblings[i] = next
			return
		}
	}
}

// updateParentDom refreshes the first-node pointer of the component and
// fragment ancestors of rec after its output changed.
func (r *Renderer) updateParentDom(rec *Record) {
	for p := rec.parent; p != nil && p.node != nil; p = p.parent {
		if k := p.typ.kind; k == KindHost || k == KindText {
			return
		}
		p.node.dom = firstDom(p.node.children)
	}
}

func (r *Renderer) addCommit(q *CommitQueue, rec *Record, hook string, fn func()) {
	if commit := r.hooks.Commit; commit != nil {
		inner := fn
		fn = func() {
			commit(rec, hook)
			inner()
		}
	}
	q.Add(rec, hook, fn)
}

func (r *Renderer) commit(q *CommitQueue) {
	q.Drain(func(rec *Record, err error) {
		var n *Node
		if rec != nil {
			n = rec.node
		}
		r.catchError(err, n, nil)
	})
}
