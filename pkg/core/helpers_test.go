package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
)

// journal records lifecycle events in order.
type journal struct {
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) reset() {
	j.entries = nil
}

// probe is a class component that journals every hook it receives.
type probe struct {
	ComponentBase
	j       *journal
	name    string
	render  func(c *probe, props Props, state State) *Node
	gate    func(next Props, nextState State) bool
	renders int
}

func (c *probe) Render(props Props, state State, _ any) *Node {
	c.renders++
	c.j.add("%s.Render", c.name)
	if c.render == nil {
		return nil
	}
	return c.render(c, props, state)
}

func (c *probe) WillMount() { c.j.add("%s.WillMount", c.name) }

func (c *probe) DidMount() { c.j.add("%s.DidMount", c.name) }

func (c *probe) WillReceiveProps(next Props, _ any) {
	c.j.add("%s.WillReceiveProps", c.name)
}

func (c *probe) ShouldUpdate(next Props, nextState State, _ any) bool {
	c.j.add("%s.ShouldUpdate", c.name)
	if c.gate == nil {
		return true
	}
	return c.gate(next, nextState)
}

func (c *probe) WillUpdate(Props, State, any) { c.j.add("%s.WillUpdate", c.name) }

func (c *probe) SnapshotBeforeUpdate(prevProps Props, prevState State) any {
	c.j.add("%s.SnapshotBeforeUpdate", c.name)
	return "snap"
}

func (c *probe) DidUpdate(prevProps Props, prevState State, snapshot any) {
	c.j.add("%s.DidUpdate prevState=%v snapshot=%v", c.name, prevState, snapshot)
}

func (c *probe) WillUnmount() { c.j.add("%s.WillUnmount", c.name) }

// probeClass builds a class whose instances are probes. The created
// instance is stored in *inst when inst is non-nil.
func probeClass(j *journal, name string, initial State, inst **probe, render func(c *probe, props Props, state State) *Node) *Class {
	return &Class{
		Name: name,
		New: func(Props, any) Component {
			j.add("%s.New", name)
			c := &probe{j: j, name: name, render: render}
			if initial != nil {
				c.SetInitialState(cloneState(initial))
			}
			if inst != nil {
				*inst = c
			}
			return c
		},
	}
}

// captureHandler collects globally reported errors.
type captureHandler struct {
	errors.LogHandler
	lifecycle []*errors.LifecycleError
	reconcile []*errors.ReconcileError
}

func (h *captureHandler) HandleError(err *errors.ReconcileError) {
	h.reconcile = append(h.reconcile, err)
}

func (h *captureHandler) HandleLifecycleError(err *errors.LifecycleError) {
	h.lifecycle = append(h.lifecycle, err)
}

func withCaptureHandler(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func newTestRenderer(t *testing.T, opts Options) (*Renderer, *dom.Document) {
	t.Helper()
	doc := dom.NewDocument()
	return NewRenderer(doc, opts), doc
}

// rootChild returns the i-th top-level descriptor rendered into the
// document root.
func rootChild(t *testing.T, r *Renderer, i int) *Node {
	t.Helper()
	root, ok := r.roots[r.doc.Root()]
	require.True(t, ok, "nothing rendered")
	require.Greater(t, len(root.children), i)
	return root.children[i]
}
