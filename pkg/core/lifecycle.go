package core

import (
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/vdom/pkg/errors"
)

// renderResult is the outcome of one pass of the component lifecycle.
type renderResult struct {
	// children is the normalized render output.
	children []*Node
	// context is the context for the component's subtree.
	context Context
	// skip reports that the component bailed out and its previous subtree
	// stands.
	skip bool
}

// renderComponent runs the lifecycle of the component at rec. newNode is
// nil for a re-render triggered by the component itself, in which case the
// committed props are reused.
func (r *Renderer) renderComponent(newNode *Node, rec *Record, ctx Context, q *CommitQueue) (renderResult, error) {
	typ := rec.typ
	name := typ.Name()

	newProps := rec.props
	if newNode != nil {
		newProps = newNode.Props
	}

	var provider *providerComponent
	var componentCtx any = ctx
	if ch := typ.contextType(); ch != nil {
		if v, ok := ctx.Value(ch); ok {
			provider, _ = v.(*providerComponent)
		}
		if provider != nil {
			componentCtx = provider.value()
		} else {
			componentCtx = ch.Default
		}
	}

	c := rec.instance
	mounting := c == nil
	if mounting {
		var err error
		if c, err = instantiate(typ, newProps, componentCtx); err != nil {
			return renderResult{}, err
		}
		b := c.base()
		b.record = rec
		b.renderer = r
		b.props = newProps
		b.context = componentCtx
		if b.state == nil {
			b.state = State{}
		}
		rec.instance = c
		if provider != nil {
			provider.subscribe(rec)
			rec.provider = provider
		}
		rec.flags |= FlagDirty
	}
	b := c.base()

	if b.nextState == nil {
		b.nextState = b.state
	}
	derive := typ.deriveStateFromProps()
	if derive != nil {
		if sameMap(b.nextState, b.state) {
			b.nextState = cloneState(b.nextState)
		}
		var patch State
		if err := invoke(name, "DeriveStateFromProps", func() { patch = derive(newProps, b.nextState) }); err != nil {
			return renderResult{}, err
		}
		maps.Copy(b.nextState, patch)
	}

	oldProps, oldState := b.props, b.state

	if mounting {
		if m, ok := c.(WillMounter); ok && derive == nil {
			if err := invoke(name, "WillMount", m.WillMount); err != nil {
				return renderResult{}, err
			}
		}
		if m, ok := c.(DidMounter); ok {
			r.addCommit(q, rec, "DidMount", m.DidMount)
		}
	} else {
		if pr, ok := c.(PropsReceiver); ok && derive == nil && !sameMap(newProps, oldProps) {
			if err := invoke(name, "WillReceiveProps", func() { pr.WillReceiveProps(newProps, componentCtx) }); err != nil {
				return renderResult{}, err
			}
		}

		vetoed := false
		if g, ok := c.(UpdateGate); ok && rec.flags&FlagForceUpdate == 0 {
			proceed := true
			if err := invoke(name, "ShouldUpdate", func() { proceed = g.ShouldUpdate(newProps, b.nextState, componentCtx) }); err != nil {
				return renderResult{}, err
			}
			vetoed = !proceed
		}
		sameRender := newNode != nil && newNode.renderID != 0 && newNode.renderID == rec.renderID
		if vetoed || sameRender {
			b.props = newProps
			b.state = b.nextState
			rec.props = newProps
			if newNode != nil && !sameRender {
				rec.flags &^= FlagDirty
			}
			rec.flags &^= FlagForceUpdate
			r.logger.Debug("component bailed out",
				zap.String("component", name),
				zap.Bool("vetoed", vetoed),
			)
			return renderResult{skip: true}, nil
		}

		if u, ok := c.(WillUpdater); ok {
			if err := invoke(name, "WillUpdate", func() { u.WillUpdate(newProps, b.nextState, componentCtx) }); err != nil {
				return renderResult{}, err
			}
		}
	}

	b.context = componentCtx
	b.props = newProps
	b.state = b.nextState
	rec.props = newProps

	if r.hooks.BeforeRender != nil {
		r.hooks.BeforeRender(rec)
	}
	rec.flags &^= FlagDirty | FlagForceUpdate

	var out *Node
	if err := invoke(name, "Render", func() { out = c.Render(b.props, b.state, b.context) }); err != nil {
		return renderResult{}, err
	}
	b.state = b.nextState

	childCtx := ctx
	if p, ok := c.(ChildContextProvider); ok {
		var contrib map[any]any
		if err := invoke(name, "ChildContext", func() { contrib = p.ChildContext() }); err != nil {
			return renderResult{}, err
		}
		childCtx = ctx.With(contrib)
	}

	if !mounting {
		var snapshot any
		if s, ok := c.(Snapshotter); ok {
			if err := invoke(name, "SnapshotBeforeUpdate", func() { snapshot = s.SnapshotBeforeUpdate(oldProps, oldState) }); err != nil {
				return renderResult{}, err
			}
		}
		if u, ok := c.(DidUpdater); ok {
			r.addCommit(q, rec, "DidUpdate", func() { u.DidUpdate(oldProps, oldState, snapshot) })
		}
	}

	return renderResult{children: normalizeOutput(out), context: childCtx}, nil
}

// instantiate creates the instance for a component type.
func instantiate(typ Type, props Props, ctx any) (Component, error) {
	if typ.kind == KindFunction {
		return &funcInstance{fn: typ.fn}, nil
	}
	var c Component
	if typ.class.New != nil {
		if err := invoke(typ.Name(), "New", func() { c = typ.class.New(props, ctx) }); err != nil {
			return nil, err
		}
	}
	if c == nil {
		return nil, &errors.LifecycleError{
			Component:  typ.Name(),
			Hook:       "New",
			Err:        errNilInstance,
			StackTrace: errors.CaptureStack(),
			Timestamp:  time.Now(),
		}
	}
	return c, nil
}

// normalizeOutput turns a render result into a child list. An unkeyed
// fragment at the top is transparent.
func normalizeOutput(out *Node) []*Node {
	if out == nil {
		return nil
	}
	if out.Trusted() && out.Type.kind == KindFragment && out.Key == nil {
		return out.Props.Children()
	}
	return []*Node{out}
}

// invoke runs a component hook, converting a panic into a LifecycleError.
func invoke(component, hook string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			le := &errors.LifecycleError{
				Component:  component,
				Hook:       hook,
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			if e, ok := r.(error); ok {
				le.Err = e
			}
			err = le
		}
	}()
	fn()
	return nil
}

func (t Type) deriveStateFromProps() func(Props, State) State {
	if t.kind == KindClass {
		return t.class.DeriveStateFromProps
	}
	return nil
}
