package scene

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-drift/vdom/pkg/core"
)

// Journal collects lifecycle hook invocations in call order.
type Journal struct {
	entries []string
}

// Add records that component ran hook.
func (j *Journal) Add(component, hook string) {
	j.entries = append(j.entries, component+" "+hook)
}

// Take returns the recorded entries and clears the journal.
func (j *Journal) Take() []string {
	out := j.entries
	j.entries = nil
	return out
}

// Registry maps scene component names to component types.
type Registry struct {
	types map[string]core.Type
	theme *core.ContextChannel
}

type factory func(j *Journal, theme *core.ContextChannel) core.Type

var factories = map[string]factory{
	"counter":  counterType,
	"greeting": func(*Journal, *core.ContextChannel) core.Type { return greeting.Type() },
	"pair":     func(*Journal, *core.ContextChannel) core.Type { return pair.Type() },
	"list":     func(*Journal, *core.ContextChannel) core.Type { return list.Type() },
	"themed":   themedType,
	"theme":    func(_ *Journal, theme *core.ContextChannel) core.Type { return theme.Provider() },
}

// Components returns the names of the built-in components, sorted.
func Components() []string {
	return slices.Sorted(maps.Keys(factories))
}

// NewRegistry builds the built-in components. Stateful components write
// their lifecycle to j.
func NewRegistry(j *Journal) *Registry {
	r := &Registry{
		types: make(map[string]core.Type, len(factories)),
		theme: core.CreateContext("theme", "light"),
	}
	for name, f := range factories {
		r.types[name] = f(j, r.theme)
	}
	return r
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (core.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Build turns a scene node into a descriptor tree.
func (r *Registry) Build(spec *NodeSpec) (*core.Node, error) {
	if spec == nil {
		return nil, nil
	}
	if spec.Text != nil {
		return core.Text(*spec.Text), nil
	}

	var typ core.Type
	switch {
	case spec.Component != "":
		t, ok := r.Lookup(spec.Component)
		if !ok {
			return nil, fmt.Errorf("unknown component %q", spec.Component)
		}
		typ = t
	case spec.Tag != "":
		typ = core.Tag(spec.Tag)
	default:
		return nil, fmt.Errorf("node has neither tag, component nor text")
	}

	props := make(core.Props, len(spec.Props)+1)
	maps.Copy(props, spec.Props)
	if spec.Key != "" {
		props[core.KeyProp] = spec.Key
	}

	children := make([]any, 0, len(spec.Children))
	for i := range spec.Children {
		child, err := r.Build(&spec.Children[i])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return core.H(typ, props, children...), nil
}

// counter is a stateful button that journals every lifecycle hook.
type counter struct {
	core.ComponentBase
	name    string
	journal *Journal
	clicks  *clicks
}

// clicks tallies presses over a counter's lifetime and journals the total
// when the counter is disposed.
type clicks struct {
	owner *counter
	n     int
}

func (t *clicks) Dispose() {
	t.owner.log(fmt.Sprintf("Dispose clicks=%d", t.n))
}

func counterType(j *Journal, _ *core.ContextChannel) core.Type {
	cls := &core.Class{
		Name: "counter",
		New: func(props core.Props, _ any) core.Component {
			c := &counter{name: "counter", journal: j}
			if id, ok := props["id"].(string); ok {
				c.name += "#" + id
			}
			c.SetInitialState(core.State{"count": intProp(props, "start")})
			c.clicks = core.UseController(c, func() *clicks { return &clicks{owner: c} })
			return c
		},
	}
	return cls.Type()
}

func (c *counter) log(hook string) {
	if c.journal != nil {
		c.journal.Add(c.name, hook)
	}
}

func (c *counter) Render(props core.Props, state core.State, _ any) *core.Node {
	c.log("Render")
	label, _ := props["label"].(string)
	if label == "" {
		label = "count"
	}
	return core.El("button", core.Props{
		"id":      props["id"],
		"onClick": c.increment,
	}, label, ": ", state["count"])
}

func (c *counter) increment() {
	c.clicks.n++
	c.UpdateState(func(pending core.State, _ core.Props) core.State {
		n, _ := pending["count"].(int)
		return core.State{"count": n + 1}
	})
}

func (c *counter) WillMount()                             { c.log("WillMount") }
func (c *counter) DidMount()                              { c.log("DidMount") }
func (c *counter) WillReceiveProps(core.Props, any)       { c.log("WillReceiveProps") }
func (c *counter) WillUpdate(core.Props, core.State, any) { c.log("WillUpdate") }
func (c *counter) DidUpdate(core.Props, core.State, any)  { c.log("DidUpdate") }
func (c *counter) WillUnmount()                           { c.log("WillUnmount") }

func (c *counter) ShouldUpdate(core.Props, core.State, any) bool {
	c.log("ShouldUpdate")
	return true
}

func (c *counter) SnapshotBeforeUpdate(core.Props, core.State) any {
	c.log("SnapshotBeforeUpdate")
	return c.State()["count"]
}

var greeting = &core.Func{
	Name: "greeting",
	Render: func(props core.Props, _ any) *core.Node {
		return core.El("p", nil, "Hello, ", props["name"])
	},
}

// pair renders a definition-list entry as an unkeyed fragment.
var pair = &core.Func{
	Name: "pair",
	Render: func(props core.Props, _ any) *core.Node {
		return core.Fragment(nil,
			core.El("dt", nil, props["term"]),
			core.El("dd", nil, props["def"]),
		)
	},
}

var list = &core.Func{
	Name: "list",
	Render: func(props core.Props, _ any) *core.Node {
		items, _ := props["items"].([]any)
		lis := make([]*core.Node, 0, len(items))
		for _, item := range items {
			key := fmt.Sprint(item)
			lis = append(lis, core.El("li", core.Props{core.KeyProp: key}, key))
		}
		return core.El("ul", nil, lis)
	},
}

func themedType(_ *Journal, theme *core.ContextChannel) core.Type {
	f := &core.Func{
		Name:        "themed",
		ContextType: theme,
		Render: func(props core.Props, value any) *core.Node {
			return core.El("span", core.Props{"className": value}, props["label"], props.Children())
		},
	}
	return f.Type()
}

func intProp(props core.Props, name string) int {
	switch v := props[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
