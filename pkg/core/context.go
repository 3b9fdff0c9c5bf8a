package core

import "maps"

// Context is the immutable map of values inherited down the tree. Keys are
// usually *ContextChannel values; components may contribute any comparable
// key through ChildContext.
type Context struct {
	values map[any]any
}

// EmptyContext returns a context with no values.
func EmptyContext() Context {
	return Context{}
}

// Value looks up key.
func (c Context) Value(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Len returns the number of entries.
func (c Context) Len() int {
	return len(c.values)
}

// With returns a copy of c with contrib merged over it. c is unchanged.
func (c Context) With(contrib map[any]any) Context {
	if len(contrib) == 0 {
		return c
	}
	next := make(map[any]any, len(c.values)+len(contrib))
	maps.Copy(next, c.values)
	maps.Copy(next, contrib)
	return Context{values: next}
}

// ContextChannel is a named context created by CreateContext. Components
// subscribe to the nearest enclosing provider by declaring the channel as
// their ContextType.
type ContextChannel struct {
	Name    string
	Default any

	provider *Class
	consumer *Func
}

// CreateContext creates a context channel with a default value used when no
// provider encloses a subscriber.
func CreateContext(name string, defaultValue any) *ContextChannel {
	ch := &ContextChannel{Name: name, Default: defaultValue}
	ch.provider = &Class{
		Name: name + ".Provider",
		New: func(Props, any) Component {
			return &providerComponent{channel: ch, subs: make(map[*Record]struct{})}
		},
	}
	ch.consumer = &Func{
		Name:        name + ".Consumer",
		ContextType: ch,
		Render: func(props Props, value any) *Node {
			render, _ := props[RenderProp].(func(any) *Node)
			if render == nil {
				return nil
			}
			return render(value)
		},
	}
	return ch
}

// Provider returns the component type that supplies a value to its subtree
// through its "value" prop.
func (ch *ContextChannel) Provider() Type {
	return ch.provider.Type()
}

// Consumer returns a function component type that calls its "render" prop,
// a func(any) *Node, with the current value.
func (ch *ContextChannel) Consumer() Type {
	return ch.consumer.Type()
}

// providerComponent is the instance behind ContextChannel.Provider.
type providerComponent struct {
	ComponentBase
	channel *ContextChannel
	subs    map[*Record]struct{}
}

func (p *providerComponent) ChildContext() map[any]any {
	return map[any]any{p.channel: p}
}

func (p *providerComponent) ShouldUpdate(next Props, _ State, _ any) bool {
	if !sameValue(p.Props()[ValueProp], next[ValueProp]) {
		for rec := range p.subs {
			rec.flags |= FlagForceUpdate
			if c := rec.instance; c != nil {
				c.base().enqueue()
			}
		}
	}
	return true
}

func (p *providerComponent) Render(props Props, _ State, _ any) *Node {
	return Fragment(nil, props.Children())
}

func (p *providerComponent) value() any {
	return p.Props()[ValueProp]
}

func (p *providerComponent) subscribe(rec *Record) {
	p.subs[rec] = struct{}{}
}

func (p *providerComponent) unsubscribe(rec *Record) {
	delete(p.subs, rec)
}
