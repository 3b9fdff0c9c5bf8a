package testing

import (
	"errors"
	"testing"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its frame budget.
var ErrSettleTimeout = errors.New("PumpAndSettle: renderer did not settle")

// Tester drives a Renderer over an in-memory document.
type Tester struct {
	doc        *dom.Document
	renderer   *core.Renderer
	dispatches []func()
}

// NewTester creates a tester. opts configure the underlying renderer.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester(opts core.Options) *Tester {
	doc := dom.NewDocument()
	return &Tester{
		doc:      doc,
		renderer: core.NewRenderer(doc, opts),
	}
}

// NewTesterWithT creates a tester that unmounts its tree via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T) *Tester {
	tester := NewTester(core.Options{})
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the rendered tree.
func (t *Tester) Cleanup() {
	_ = t.renderer.Unmount(nil)
}

// PumpNode renders node, diffing against the previously pumped tree, and
// flushes scheduled work.
func (t *Tester) PumpNode(node *core.Node) error {
	return t.renderer.Render(node, nil)
}

// Pump runs one frame: queued dispatches first, then a flush of every
// component that scheduled itself.
func (t *Tester) Pump() error {
	dispatches := t.dispatches
	t.dispatches = nil
	for _, fn := range dispatches {
		fn()
	}

	return t.renderer.Flush()
}

// PumpAndSettle pumps until no work is pending or maxFrames frames ran.
func (t *Tester) PumpAndSettle(maxFrames int) error {
	for range maxFrames {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	return t.renderer.Owner().NeedsWork() || len(t.dispatches) > 0
}

// Dispatch queues a callback for the next Pump.
func (t *Tester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}

// Renderer returns the renderer under test.
func (t *Tester) Renderer() *core.Renderer {
	return t.renderer
}

// Document returns the render target.
func (t *Tester) Document() *dom.Document {
	return t.doc
}

// HTML returns the current markup.
func (t *Tester) HTML() string {
	return t.doc.String()
}

// Root returns the root descriptor of the mounted tree.
func (t *Tester) Root() *core.Node {
	return t.renderer.Root(nil)
}

// Find evaluates a finder against the current descriptor tree.
func (t *Tester) Find(finder Finder) FinderResult {
	root := t.Root()
	if root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		nodes:  finder.Evaluate(root),
		finder: finder,
	}
}
