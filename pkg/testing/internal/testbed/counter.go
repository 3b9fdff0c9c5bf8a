// Package testbed provides internal test components for the testing
// framework.
package testbed

import (
	"fmt"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
)

// Counter is a stateful component that displays a count and increments on
// tap. Props: "initial" (int) and "onTap" (func(int)).
var Counter = &core.Class{Name: "Counter", New: newCounter}

type counterState struct {
	core.ComponentBase
}

func newCounter(props core.Props, _ any) core.Component {
	c := &counterState{}
	initial, _ := props["initial"].(int)
	c.SetInitialState(core.State{"count": initial})
	return c
}

func (c *counterState) Render(props core.Props, state core.State, _ any) *core.Node {
	count := state["count"].(int)
	return core.El("button", core.Props{
		"onClick": func() {
			c.SetState(core.State{"count": count + 1})
			if onTap, ok := props["onTap"].(func(int)); ok {
				onTap(count + 1)
			}
		},
	}, fmt.Sprintf("%d", count))
}

// Field mirrors a text input and a checkbox into text.
var Field = &core.Class{Name: "Field", New: func(core.Props, any) core.Component {
	f := &fieldState{}
	f.SetInitialState(core.State{"text": "", "on": false})
	return f
}}

type fieldState struct {
	core.ComponentBase
}

func (f *fieldState) Render(_ core.Props, state core.State, _ any) *core.Node {
	on := state["on"].(bool)
	status := "off"
	if on {
		status = "on"
	}
	return core.El("form", nil,
		core.El("input", core.Props{
			"id":    "text",
			"value": state["text"],
			"onInput": func(e dom.Event) {
				f.SetState(core.State{"text": fmt.Sprint(e.Target.Value())})
			},
		}),
		core.El("input", core.Props{
			"id":      "flag",
			"type":    "checkbox",
			"checked": on,
			"onChange": func(e dom.Event) {
				f.SetState(core.State{"on": e.Target.Checked()})
			},
		}),
		core.El("output", nil, state["text"], "/", status),
	)
}
