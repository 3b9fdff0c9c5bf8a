package core

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
)

func TestLifecycle_CounterEndToEnd(t *testing.T) {
	j := &journal{}
	var inst *probe
	counter := probeClass(j, "Counter", State{"count": 0}, &inst, func(_ *probe, _ Props, s State) *Node {
		return El("span", nil, fmt.Sprint(s["count"]))
	})
	r, doc := newTestRenderer(t, Options{})

	require.NoError(t, r.Render(H(counter.Type(), nil), nil))
	assert.Equal(t, []string{
		"Counter.New",
		"Counter.WillMount",
		"Counter.Render",
		"Counter.DidMount",
	}, j.entries)
	assert.Equal(t, "<span>0</span>", doc.String())

	j.reset()
	inst.SetState(State{"count": 1})
	require.NoError(t, r.Flush())
	assert.Equal(t, []string{
		"Counter.ShouldUpdate",
		"Counter.WillUpdate",
		"Counter.Render",
		"Counter.SnapshotBeforeUpdate",
		"Counter.DidUpdate prevState=map[count:0] snapshot=snap",
	}, j.entries)
	assert.Equal(t, "<span>1</span>", doc.String())
	assert.Equal(t, State{"count": 1}, inst.State())
}

func TestLifecycle_DidMountRunsAfterCommit(t *testing.T) {
	j := &journal{}
	var atCommit []string
	cls := probeClass(j, "Probe", nil, nil, func(*probe, Props, State) *Node {
		return El("p", nil, "ready")
	})
	doc := dom.NewDocument()
	r := NewRenderer(doc, Options{Hooks: Hooks{
		Commit: func(rec *Record, hook string) {
			atCommit = append(atCommit, hook+" "+doc.String())
		},
	}})

	require.NoError(t, r.Render(H(cls.Type(), nil), nil))
	assert.Equal(t, []string{"DidMount <p>ready</p>"}, atCommit)

	require.NoError(t, r.Flush())
	assert.Len(t, atCommit, 1, "DidMount fires exactly once")
}

func TestLifecycle_DeriveStateFromPropsSuppressesWillHooks(t *testing.T) {
	j := &journal{}
	var inst *probe
	cls := probeClass(j, "Derived", nil, &inst, nil)
	cls.DeriveStateFromProps = func(props Props, _ State) State {
		return State{"derived": props["n"]}
	}
	r, _ := newTestRenderer(t, Options{})

	require.NoError(t, r.Render(H(cls.Type(), Props{"n": 1}), nil))
	assert.Equal(t, []string{"Derived.New", "Derived.Render", "Derived.DidMount"}, j.entries)
	assert.Equal(t, 1, inst.State()["derived"])

	j.reset()
	require.NoError(t, r.Render(H(cls.Type(), Props{"n": 2}), nil))
	assert.Equal(t, []string{
		"Derived.ShouldUpdate",
		"Derived.WillUpdate",
		"Derived.Render",
		"Derived.SnapshotBeforeUpdate",
		"Derived.DidUpdate prevState=map[derived:1] snapshot=snap",
	}, j.entries)
	assert.Equal(t, 2, inst.State()["derived"])
}

func TestLifecycle_WillReceivePropsOnlyWhenPropsChange(t *testing.T) {
	j := &journal{}
	cls := probeClass(j, "Child", nil, nil, nil)
	child := H(cls.Type(), Props{"n": 1})
	r, _ := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(El("div", nil, child), nil))

	j.reset()
	require.NoError(t, r.Render(El("div", nil, H(cls.Type(), Props{"n": 2})), nil))
	assert.Equal(t, "Child.WillReceiveProps", j.entries[0])
}

func TestLifecycle_UpdateGateBailsOut(t *testing.T) {
	j := &journal{}
	var inst *probe
	cls := probeClass(j, "Gated", nil, &inst, func(_ *probe, props Props, _ State) *Node {
		return El("span", nil, fmt.Sprint(props["n"]))
	})
	r, doc := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(H(cls.Type(), Props{"n": 1}), nil))
	inst.gate = func(Props, State) bool { return false }
	before := rootChild(t, r, 0).Children()

	j.reset()
	doc.ResetMutations()
	require.NoError(t, r.Render(H(cls.Type(), Props{"n": 2}), nil))

	assert.Equal(t, []string{"Gated.WillReceiveProps", "Gated.ShouldUpdate"}, j.entries)
	assert.Equal(t, 1, inst.renders)
	assert.Equal(t, 2, inst.Props()["n"], "props are committed even when the render is skipped")
	assert.Equal(t, before, rootChild(t, r, 0).Children())
	assert.Empty(t, doc.Mutations())
	assert.Equal(t, "<span>1</span>", doc.String())

	rec, ok := r.Record(rootChild(t, r, 0))
	require.True(t, ok)
	assert.Zero(t, rec.Flags()&FlagDirty)
}

func TestLifecycle_ForceUpdateSkipsGate(t *testing.T) {
	j := &journal{}
	var inst *probe
	cls := probeClass(j, "Gated", nil, &inst, nil)
	r, _ := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(H(cls.Type(), nil), nil))
	inst.gate = func(Props, State) bool { return false }

	j.reset()
	inst.ForceUpdate()
	require.NoError(t, r.Flush())
	assert.NotContains(t, j.entries, "Gated.ShouldUpdate")
	assert.Contains(t, j.entries, "Gated.Render")
	assert.Equal(t, 2, inst.renders)
}

func TestLifecycle_VetoedSelfUpdateKeepsDirty(t *testing.T) {
	j := &journal{}
	var inst *probe
	cls := probeClass(j, "Gated", State{"x": 0}, &inst, nil)
	r, _ := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(H(cls.Type(), nil), nil))
	inst.gate = func(Props, State) bool { return false }

	inst.SetState(State{"x": 1})
	require.NoError(t, r.Flush())

	assert.Equal(t, 1, inst.renders)
	assert.Equal(t, 1, inst.State()["x"], "state is committed when the render is vetoed")
	rec, ok := r.Record(rootChild(t, r, 0))
	require.True(t, ok)
	assert.NotZero(t, rec.Flags()&FlagDirty)
}

func TestLifecycle_SameDescriptorBailsOut(t *testing.T) {
	j := &journal{}
	var child, parent *probe
	childCls := probeClass(j, "Child", nil, &child, func(*probe, Props, State) *Node {
		return El("i", nil, "c")
	})
	cached := H(childCls.Type(), nil)
	parentCls := probeClass(j, "Parent", nil, &parent, func(*probe, Props, State) *Node {
		return El("div", nil, cached)
	})
	r, doc := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(H(parentCls.Type(), nil), nil))

	j.reset()
	doc.ResetMutations()
	parent.ForceUpdate()
	require.NoError(t, r.Flush())

	assert.Equal(t, []string{
		"Parent.WillUpdate",
		"Parent.Render",
		"Parent.SnapshotBeforeUpdate",
		"Child.ShouldUpdate",
		"Parent.DidUpdate prevState=map[] snapshot=snap",
	}, j.entries)
	assert.Equal(t, 1, child.renders)
	assert.Empty(t, doc.Mutations())
}

func TestLifecycle_FunctionFragmentIsUnwrapped(t *testing.T) {
	a := El("li", nil, "a")
	b := El("li", nil, "b")
	pair := &Func{Name: "Pair", Render: func(Props, any) *Node {
		return Fragment(nil, a, b)
	}}
	r, doc := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(El("ul", nil, H(pair.Type(), nil)), nil))

	pairNode := rootChild(t, r, 0).Children()[0]
	require.Len(t, pairNode.Children(), 2)
	assert.Same(t, a, pairNode.Children()[0])
	assert.Same(t, b, pairNode.Children()[1])
	assert.Same(t, a.DOM(), pairNode.DOM())
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul>", doc.String())
}

func TestLifecycle_KeyedFragmentIsKept(t *testing.T) {
	pair := &Func{Name: "Pair", Render: func(Props, any) *Node {
		return Fragment("k", El("li", nil, "a"), El("li", nil, "b"))
	}}
	r, _ := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(H(pair.Type(), nil), nil))

	pairNode := rootChild(t, r, 0)
	require.Len(t, pairNode.Children(), 1)
	assert.Equal(t, KindFragment, pairNode.Children()[0].Type.Kind())
}

func TestLifecycle_RenderPanicIsCaughtByBoundary(t *testing.T) {
	boom := &Func{Name: "Boom", Render: func(Props, any) *Node { panic("kaboom") }}
	var caught error
	boundary := &Class{
		Name: "Boundary",
		New: func(Props, any) Component {
			return &catcher{onCatch: func(err error) { caught = err }}
		},
		DeriveStateFromError: func(error) State { return State{"failed": true} },
	}
	r, doc := newTestRenderer(t, Options{})
	handler := withCaptureHandler(t)

	require.NoError(t, r.Render(H(boundary.Type(), nil, H(boom.Type(), nil)), nil))

	assert.Equal(t, "<p>fallback</p>", doc.String())
	var le *errors.LifecycleError
	require.True(t, stderrors.As(caught, &le))
	assert.Equal(t, "Boom", le.Component)
	assert.Equal(t, "Render", le.Hook)
	assert.Equal(t, "kaboom", le.Recovered)
	assert.Empty(t, handler.lifecycle, "absorbed errors are not reported globally")
	assert.Equal(t, 4, r.Records(), "root, boundary, fallback and its text remain")
}

func TestLifecycle_UpdatePanicIsReplacedByFallback(t *testing.T) {
	boom := &Func{Name: "Boom", Render: func(props Props, _ any) *Node {
		if props["fail"] == true {
			panic("kaboom")
		}
		return El("span", nil, "ok")
	}}
	boundary := &Class{
		Name:                 "Boundary",
		New:                  func(Props, any) Component { return &catcher{onCatch: func(error) {}} },
		DeriveStateFromError: func(error) State { return State{"failed": true} },
	}
	r, doc := newTestRenderer(t, Options{})
	handler := withCaptureHandler(t)

	require.NoError(t, r.Render(H(boundary.Type(), nil, H(boom.Type(), nil)), nil))
	assert.Equal(t, "<span>ok</span>", doc.String())
	assert.Equal(t, 5, r.Records())

	require.NoError(t, r.Render(H(boundary.Type(), nil, H(boom.Type(), Props{"fail": true})), nil))
	assert.Equal(t, "<p>fallback</p>", doc.String(), "the old output is removed with the failed child")
	assert.Empty(t, handler.lifecycle)
	assert.Equal(t, 4, r.Records(), "root, boundary, fallback and its text remain")
}

type catcher struct {
	ComponentBase
	onCatch func(error)
}

func (c *catcher) DidCatch(err error) { c.onCatch(err) }

func (c *catcher) Render(props Props, state State, _ any) *Node {
	if state["failed"] == true {
		return El("p", nil, "fallback")
	}
	return Fragment(nil, props.Children())
}

func TestLifecycle_UnhandledErrorInvalidatesDescriptor(t *testing.T) {
	boom := &Func{Name: "Boom", Render: func(Props, any) *Node { panic("kaboom") }}
	r, _ := newTestRenderer(t, Options{})
	handler := withCaptureHandler(t)

	err := r.Render(H(boom.Type(), nil), nil)
	require.Error(t, err)
	var le *errors.LifecycleError
	require.True(t, stderrors.As(err, &le))
	assert.Equal(t, "Render", le.Hook)
	require.Len(t, handler.lifecycle, 1)
	assert.Zero(t, rootChild(t, r, 0).RenderID())
}

func TestLifecycle_DidMountPanicIsReported(t *testing.T) {
	r, _ := newTestRenderer(t, Options{})
	handler := withCaptureHandler(t)
	cls := &Class{Name: "Loud", New: func(Props, any) Component { return &loud{} }}

	err := r.Render(H(cls.Type(), nil), nil)
	require.Error(t, err)
	require.Len(t, handler.lifecycle, 1)
	assert.Equal(t, "DidMount", handler.lifecycle[0].Hook)
}

type loud struct{ ComponentBase }

func (*loud) Render(Props, State, any) *Node { return nil }
func (*loud) DidMount()                      { panic("mount failed") }

func TestLifecycle_WillUnmountAndDisposers(t *testing.T) {
	j := &journal{}
	var inst *probe
	cls := probeClass(j, "Leaf", nil, &inst, nil)
	r, _ := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(H(cls.Type(), nil), nil))
	disposed := false
	inst.OnDispose(func() { disposed = true })

	j.reset()
	require.NoError(t, r.Render(nil, nil))
	assert.Equal(t, []string{"Leaf.WillUnmount"}, j.entries)
	assert.True(t, disposed)
	assert.True(t, inst.IsDisposed())
	assert.Nil(t, inst.Record())

	inst.SetState(State{"late": true})
	assert.False(t, r.Owner().NeedsWork(), "state changes after unmount schedule nothing")
}

func TestLifecycle_SetStateInConstructorIsApplied(t *testing.T) {
	cls := &Class{Name: "Eager", New: func(Props, any) Component {
		c := &eager{}
		c.SetInitialState(State{"a": 1})
		c.SetState(State{"b": 2})
		return c
	}}
	r, doc := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(H(cls.Type(), nil), nil))
	assert.Equal(t, "1-2", doc.String())
}

type eager struct{ ComponentBase }

func (*eager) Render(_ Props, s State, _ any) *Node {
	return Text(fmt.Sprintf("%v-%v", s["a"], s["b"]))
}

func TestLifecycle_NilInstanceIsLifecycleError(t *testing.T) {
	cls := &Class{Name: "Empty", New: func(Props, any) Component { return nil }}
	r, _ := newTestRenderer(t, Options{})
	withCaptureHandler(t)

	err := r.Render(H(cls.Type(), nil), nil)
	var le *errors.LifecycleError
	require.True(t, stderrors.As(err, &le))
	assert.Equal(t, "New", le.Hook)
	assert.ErrorIs(t, err, errNilInstance)
}

type flaky struct {
	ComponentBase
	explode bool
	renders int
}

func (c *flaky) Render(Props, State, any) *Node {
	c.renders++
	if c.explode {
		panic("flaky render")
	}
	return Text("kid")
}

type holder struct {
	ComponentBase
	child *Node
}

func (h *holder) Render(Props, State, any) *Node {
	return El("div", nil, h.child)
}

func TestLifecycle_FailedRerenderIsNotShortCircuited(t *testing.T) {
	var kid *flaky
	flakyClass := &Class{Name: "Flaky", New: func(Props, any) Component {
		kid = &flaky{}
		return kid
	}}
	var parent *holder
	child := H(flakyClass.Type(), nil)
	holderClass := &Class{Name: "Holder", New: func(Props, any) Component {
		parent = &holder{child: child}
		return parent
	}}
	r, doc := newTestRenderer(t, Options{})
	handler := withCaptureHandler(t)

	require.NoError(t, r.Render(H(holderClass.Type(), nil), nil))
	assert.Equal(t, "<div>kid</div>", doc.String())

	kid.explode = true
	kid.ForceUpdate()
	require.Error(t, r.Flush())
	require.Len(t, handler.lifecycle, 1)
	assert.Equal(t, 2, kid.renders)
	assert.Zero(t, child.RenderID(), "the failing descriptor loses its render id")

	kid.explode = false
	parent.ForceUpdate()
	require.NoError(t, r.Flush())
	assert.Equal(t, 3, kid.renders, "the parent's pass renders the child again")
	assert.Equal(t, "<div>kid</div>", doc.String())
}

type echo struct {
	ComponentBase
	seen []string
}

func (c *echo) Render(_ Props, s State, _ any) *Node {
	if s["x"] == 1 {
		c.SetState(State{"x": 2})
	}
	return Text(fmt.Sprint(s["x"]))
}

func (c *echo) SnapshotBeforeUpdate(_ Props, prev State) any {
	c.seen = append(c.seen, fmt.Sprintf("prev=%v state=%v", prev["x"], c.State()["x"]))
	return nil
}

func TestLifecycle_StateSetDuringRenderIsCommitted(t *testing.T) {
	var inst *echo
	cls := &Class{Name: "Echo", New: func(Props, any) Component {
		inst = &echo{}
		inst.SetInitialState(State{"x": 0})
		return inst
	}}
	r, doc := newTestRenderer(t, Options{})
	require.NoError(t, r.Render(H(cls.Type(), nil), nil))
	assert.Equal(t, "0", doc.String())

	inst.SetState(State{"x": 1})
	require.NoError(t, r.Flush())

	require.NotEmpty(t, inst.seen)
	assert.Equal(t, "prev=0 state=2", inst.seen[0], "the snapshot sees the state requested in Render")
	assert.Equal(t, State{"x": 2}, inst.State())
	assert.Equal(t, "2", doc.String())
}
