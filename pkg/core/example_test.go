package core_test

import (
	"fmt"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
)

// This example renders a stateless component.
func Example() {
	greeting := &core.Func{Name: "Greeting", Render: func(props core.Props, _ any) *core.Node {
		return core.El("p", core.Props{"className": "greeting"}, "Hello, ", props["name"])
	}}

	doc := dom.NewDocument()
	r := core.NewRenderer(doc, core.Options{})
	if err := r.Render(core.H(greeting.Type(), core.Props{"name": "Ada"}), nil); err != nil {
		fmt.Println(err)
	}
	fmt.Println(doc)
	// Output: <p class="greeting">Hello, Ada</p>
}

type counter struct {
	core.ComponentBase
}

func (c *counter) Render(_ core.Props, s core.State, _ any) *core.Node {
	count := s["count"].(int)
	return core.El("button", core.Props{
		"onClick": func() { c.SetState(core.State{"count": count + 1}) },
	}, "count: ", count)
}

// This example shows a stateful component re-rendering after an event.
func Example_counter() {
	counterClass := &core.Class{
		Name: "Counter",
		New: func(core.Props, any) core.Component {
			c := &counter{}
			c.SetInitialState(core.State{"count": 0})
			return c
		},
	}

	doc := dom.NewDocument()
	r := core.NewRenderer(doc, core.Options{})
	_ = r.Render(core.H(counterClass.Type(), nil), nil)
	fmt.Println(doc)

	doc.Root().FirstChild().Fire("click")
	_ = r.Flush()
	fmt.Println(doc)
	// Output:
	// <button>count: 0</button>
	// <button>count: 1</button>
}

// This example passes a value through a context provider.
func ExampleCreateContext() {
	theme := core.CreateContext("theme", "light")
	label := &core.Func{
		Name:        "Label",
		ContextType: theme,
		Render: func(_ core.Props, value any) *core.Node {
			return core.El("span", nil, "theme: ", value)
		},
	}

	doc := dom.NewDocument()
	r := core.NewRenderer(doc, core.Options{})
	_ = r.Render(core.H(theme.Provider(), core.Props{"value": "dark"}, core.H(label.Type(), nil)), nil)
	fmt.Println(doc)
	// Output: <span>theme: dark</span>
}
