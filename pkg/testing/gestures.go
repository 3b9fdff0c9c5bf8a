package testing

import (
	"fmt"

	"github.com/go-drift/vdom/pkg/dom"
)

// Tap fires "click" on the render-target node of the first descriptor
// matched by finder, or on its nearest ancestor with a click listener.
// Call Pump afterwards to apply the resulting updates.
func (t *Tester) Tap(finder Finder) error {
	return t.fire("Tap", finder, "click")
}

// EnterText changes the live value of the first matched element the way
// typing does, then fires "input".
func (t *Tester) EnterText(finder Finder, value string) error {
	el, err := t.target("EnterText", finder)
	if err != nil {
		return err
	}
	el.Input(value)
	if _, err := el.Dispatch("input"); err != nil {
		return fmt.Errorf("EnterText: %w", err)
	}
	return nil
}

// Toggle changes the live checked state of the first matched element the
// way clicking a checkbox does, then fires "change".
func (t *Tester) Toggle(finder Finder, checked bool) error {
	el, err := t.target("Toggle", finder)
	if err != nil {
		return err
	}
	el.Toggle(checked)
	if _, err := el.Dispatch("change"); err != nil {
		return fmt.Errorf("Toggle: %w", err)
	}
	return nil
}

func (t *Tester) fire(op string, finder Finder, event string) error {
	el, err := t.target(op, finder)
	if err != nil {
		return err
	}
	for n := el; n != nil; n = n.Parent() {
		fired, err := n.Dispatch(event)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if fired {
			return nil
		}
	}
	return fmt.Errorf("%s: no %s listener at or above: %s", op, event, finder.Description())
}

func (t *Tester) target(op string, finder Finder) (*dom.Node, error) {
	result := t.Find(finder)
	if !result.Exists() {
		return nil, fmt.Errorf("%s: finder matched no descriptors: %s", op, finder.Description())
	}
	el := result.DOM()
	if el == nil {
		return nil, fmt.Errorf("%s: descriptor has no render-target node: %s", op, finder.Description())
	}
	return el, nil
}
