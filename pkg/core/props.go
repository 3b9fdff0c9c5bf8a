package core

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-drift/vdom/pkg/dom"
)

// PropSynchronizer writes props to render-target nodes.
type PropSynchronizer interface {
	// DiffProps applies the difference between two prop sets. The value and
	// checked props are left to the caller, which compares them against
	// live node state.
	DiffProps(el *dom.Node, newProps, oldProps Props, isSvg bool) error
	// SetProperty writes one prop. A nil newValue removes it.
	SetProperty(el *dom.Node, name string, newValue, oldValue any, isSvg bool) error
}

// DOMProps is the default PropSynchronizer.
//
//   - className is written as the class attribute, htmlFor as for
//   - xlinkHref inside SVG is written as xlink:href
//   - style accepts a declaration string or a map of properties
//   - on* props bind event listeners (func(), func(dom.Event) or dom.Listener)
//   - true writes an empty attribute, false and nil remove it, except for
//     aria-* and data-* where false is written literally
type DOMProps struct{}

// DiffProps implements PropSynchronizer.
func (p DOMProps) DiffProps(el *dom.Node, newProps, oldProps Props, isSvg bool) error {
	for _, name := range slices.Sorted(maps.Keys(oldProps)) {
		if name == ChildrenProp || name == KeyProp {
			continue
		}
		if _, ok := newProps[name]; !ok {
			if err := p.SetProperty(el, name, nil, oldProps[name], isSvg); err != nil {
				return err
			}
		}
	}
	for _, name := range slices.Sorted(maps.Keys(newProps)) {
		switch name {
		case ChildrenProp, KeyProp, ValueProp, CheckedProp:
			continue
		}
		if v, old := newProps[name], oldProps[name]; !sameValue(v, old) {
			if err := p.SetProperty(el, name, v, old, isSvg); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetProperty implements PropSynchronizer.
func (p DOMProps) SetProperty(el *dom.Node, name string, value, old any, isSvg bool) error {
	switch {
	case name == ChildrenProp, name == KeyProp, name == RefProp, name == RawHTMLProp:
		return nil
	case name == "style":
		return setStyle(el, value, old)
	case len(name) > 2 && strings.HasPrefix(name, "on"):
		return setListener(el, strings.ToLower(name[2:]), value)
	case name == ValueProp:
		el.SetValue(value)
		return nil
	case name == CheckedProp:
		checked, _ := value.(bool)
		el.SetChecked(checked)
		return nil
	}

	ns, attr := "", name
	switch {
	case name == "className":
		attr = "class"
	case name == "htmlFor":
		attr = "for"
	case isSvg && name == "xlinkHref":
		ns, attr = "xlink", "href"
	}

	switch v := value.(type) {
	case nil:
		el.RemoveAttrNS(ns, attr)
	case bool:
		switch {
		case v:
			el.SetAttrNS(ns, attr, "")
		case strings.HasPrefix(attr, "aria-") || strings.HasPrefix(attr, "data-"):
			el.SetAttrNS(ns, attr, "false")
		default:
			el.RemoveAttrNS(ns, attr)
		}
	case string:
		el.SetAttrNS(ns, attr, v)
	default:
		el.SetAttrNS(ns, attr, fmt.Sprint(v))
	}
	return nil
}

func setListener(el *dom.Node, event string, value any) error {
	switch fn := value.(type) {
	case nil:
		el.SetListener(event, nil)
	case dom.Listener:
		el.SetListener(event, fn)
	case func(dom.Event):
		el.SetListener(event, fn)
	case func():
		el.SetListener(event, func(dom.Event) { fn() })
	default:
		return fmt.Errorf("on%s: listener must be a function, got %T", event, value)
	}
	return nil
}

func setStyle(el *dom.Node, value, old any) error {
	switch v := value.(type) {
	case nil:
		el.SetStyleText("")
		return nil
	case string:
		el.SetStyleText(v)
		return nil
	}

	next, ok := styleMap(value)
	if !ok {
		return fmt.Errorf("style must be a string or a map, got %T", value)
	}
	prev, wasMap := styleMap(old)
	if s, isString := old.(string); !wasMap && isString && s != "" {
		el.SetStyleText("")
	}
	for _, name := range slices.Sorted(maps.Keys(prev)) {
		if _, ok := next[name]; !ok {
			el.SetStyle(name, "")
		}
	}
	for _, name := range slices.Sorted(maps.Keys(next)) {
		if prev[name] != next[name] {
			el.SetStyle(name, next[name])
		}
	}
	return nil
}

func styleMap(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			if val != nil {
				out[k] = fmt.Sprint(val)
			}
		}
		return out, true
	}
	return nil, false
}
