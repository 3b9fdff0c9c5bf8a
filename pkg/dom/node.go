package dom

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/go-drift/vdom/pkg/errors"
)

// Event is delivered to listeners.
type Event struct {
	Type   string
	Target *Node
}

// Listener handles an event fired on a node.
type Listener func(Event)

// Node is a live node of a Document.
type Node struct {
	doc *Document
	h   *html.Node

	value      any
	hasValue   bool
	checked    bool
	hasChecked bool
	listeners  map[string]Listener
	style      map[string]string
}

// Document returns the owning document.
func (n *Node) Document() *Document {
	return n.doc
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.h.Type == html.TextNode
}

// Tag returns the element tag, or "#text" for text nodes.
func (n *Node) Tag() string {
	if n.IsText() {
		return "#text"
	}
	return n.h.Data
}

// Namespace returns "svg" for SVG elements and "" otherwise.
func (n *Node) Namespace() string {
	return n.h.Namespace
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	return n.doc.wrap(n.h.Parent)
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	return n.doc.wrap(n.h.FirstChild)
}

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	return n.doc.wrap(n.h.NextSibling)
}

// Children returns the child nodes in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, n.doc.wrap(c))
	}
	return out
}

// InsertBefore moves child so that it directly precedes ref. A nil ref, or
// a ref that is not a child of n, appends. Inserting a node that is already
// in place is not a mutation.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == nil || child == ref {
		return
	}
	if ref != nil && ref.h.Parent != n.h {
		ref = nil
	}
	if child.h.Parent == n.h {
		if ref == nil && child.h.NextSibling == nil {
			return
		}
		if ref != nil && child.h.NextSibling == ref.h {
			return
		}
	}
	if p := child.h.Parent; p != nil {
		p.RemoveChild(child.h)
	}
	if ref == nil {
		n.h.AppendChild(child.h)
	} else {
		n.h.InsertBefore(child.h, ref.h)
	}
	n.doc.record(Mutation{Kind: MutationInsert, Target: n.Tag(), Value: child.Tag()})
}

// AppendChild moves child to the end of n's children.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	p := n.h.Parent
	if p == nil {
		return
	}
	p.RemoveChild(n.h)
	n.doc.record(Mutation{Kind: MutationRemove, Target: n.doc.wrap(p).Tag(), Value: n.Tag()})
}

// Attr returns the value of an attribute without namespace.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute.
func (n *Node) SetAttr(name, value string) {
	n.SetAttrNS("", name, value)
}

// SetAttrNS sets a namespaced attribute such as xlink:href.
func (n *Node) SetAttrNS(namespace, name, value string) {
	n.setAttrQuiet(namespace, name, value)
	n.doc.record(Mutation{Kind: MutationSetAttr, Target: n.Tag(), Name: qualified(namespace, name), Value: value})
}

// RemoveAttr removes an attribute. Removing an absent attribute is not a
// mutation.
func (n *Node) RemoveAttr(name string) {
	n.RemoveAttrNS("", name)
}

// RemoveAttrNS removes a namespaced attribute.
func (n *Node) RemoveAttrNS(namespace, name string) {
	if n.removeAttrQuiet(namespace, name) {
		n.doc.record(Mutation{Kind: MutationRemoveAttr, Target: n.Tag(), Name: qualified(namespace, name)})
	}
}

// Text returns the data of a text node, or the concatenated text of an
// element's descendants.
func (n *Node) Text() string {
	if n.IsText() {
		return n.h.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n.h)
	return sb.String()
}

// SetText replaces the data of a text node.
func (n *Node) SetText(text string) {
	if !n.IsText() {
		return
	}
	n.h.Data = text
	n.doc.record(Mutation{Kind: MutationText, Target: n.Tag(), Value: text})
}

// InnerHTML serializes n's children.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// SetInnerHTML replaces n's children with the parsed markup.
func (n *Node) SetInnerHTML(markup string) error {
	parsed, err := html.ParseFragment(strings.NewReader(markup), n.h)
	if err != nil {
		return fmt.Errorf("parse inner html for <%s>: %w", n.Tag(), err)
	}
	for c := n.h.FirstChild; c != nil; c = n.h.FirstChild {
		n.h.RemoveChild(c)
		n.doc.forget(c)
	}
	for _, c := range parsed {
		n.h.AppendChild(c)
	}
	n.doc.record(Mutation{Kind: MutationInnerHTML, Target: n.Tag(), Value: markup})
	return nil
}

// Value returns the live value property. Until it is written, the value
// attribute (or "") is reported.
func (n *Node) Value() any {
	if n.hasValue {
		return n.value
	}
	if v, ok := n.Attr("value"); ok {
		return v
	}
	return ""
}

// SetValue writes the live value property and reflects it to the value
// attribute. nil clears both.
func (n *Node) SetValue(v any) {
	n.value = v
	n.hasValue = v != nil
	if v == nil {
		n.removeAttrQuiet("", "value")
	} else {
		n.setAttrQuiet("", "value", fmt.Sprint(v))
	}
	n.doc.record(Mutation{Kind: MutationProperty, Target: n.Tag(), Name: "value", Value: fmt.Sprint(v)})
}

// Checked returns the live checked property.
func (n *Node) Checked() bool {
	if n.hasChecked {
		return n.checked
	}
	_, ok := n.Attr("checked")
	return ok
}

// SetChecked writes the live checked property and reflects it to the
// checked attribute.
func (n *Node) SetChecked(checked bool) {
	n.checked = checked
	n.hasChecked = true
	if checked {
		n.setAttrQuiet("", "checked", "")
	} else {
		n.removeAttrQuiet("", "checked")
	}
	n.doc.record(Mutation{Kind: MutationProperty, Target: n.Tag(), Name: "checked", Value: fmt.Sprint(checked)})
}

// Input changes the live value the way user interaction does: no attribute
// changes and nothing is logged.
func (n *Node) Input(v any) {
	n.value = v
	n.hasValue = true
}

// Toggle changes the live checked state the way user interaction does.
func (n *Node) Toggle(checked bool) {
	n.checked = checked
	n.hasChecked = true
}

// SetListener binds l to event, replacing any previous binding. A nil l
// removes the binding.
func (n *Node) SetListener(event string, l Listener) {
	if l == nil {
		if _, ok := n.listeners[event]; !ok {
			return
		}
		delete(n.listeners, event)
		n.doc.record(Mutation{Kind: MutationListener, Target: n.Tag(), Name: event})
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string]Listener)
	}
	n.listeners[event] = l
	n.doc.record(Mutation{Kind: MutationListener, Target: n.Tag(), Name: event, Value: "bound"})
}

// Listener returns the listener bound to event, or nil.
func (n *Node) Listener(event string) Listener {
	return n.listeners[event]
}

// Fire invokes the listener bound to event. It reports whether one ran.
func (n *Node) Fire(event string) bool {
	l := n.listeners[event]
	if l == nil {
		return false
	}
	l(Event{Type: event, Target: n})
	return true
}

// Dispatch is Fire for listeners supplied by user code. A panicking listener
// is reported to the global error handler and returned as an error.
func (n *Node) Dispatch(event string) (fired bool, err error) {
	defer errors.RecoverWithCallback("dom.Dispatch", func(r any) {
		fired = true
		err = fmt.Errorf("%s listener on <%s> panicked: %v", event, n.Tag(), r)
	})
	return n.Fire(event), nil
}

// Style returns one style property.
func (n *Node) Style(name string) string {
	return n.style[name]
}

// SetStyle sets one style property; an empty value removes it.
func (n *Node) SetStyle(name, value string) {
	if value == "" {
		delete(n.style, name)
	} else {
		if n.style == nil {
			n.style = make(map[string]string)
		}
		n.style[name] = value
	}
	n.reflectStyle()
	n.doc.record(Mutation{Kind: MutationStyle, Target: n.Tag(), Name: name, Value: value})
}

// SetStyleText replaces the whole style with a raw declaration string.
func (n *Node) SetStyleText(text string) {
	n.style = nil
	if text == "" {
		n.removeAttrQuiet("", "style")
	} else {
		n.setAttrQuiet("", "style", text)
	}
	n.doc.record(Mutation{Kind: MutationStyle, Target: n.Tag(), Value: text})
}

// FindByID returns the first descendant element (or n itself) whose id
// attribute equals id.
func (n *Node) FindByID(id string) *Node {
	if v, ok := n.Attr("id"); ok && v == id && !n.IsText() {
		return n
	}
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		if found := n.doc.wrap(c).FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) reflectStyle() {
	if len(n.style) == 0 {
		n.removeAttrQuiet("", "style")
		return
	}
	keys := slices.Sorted(maps.Keys(n.style))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+n.style[k]+";")
	}
	n.setAttrQuiet("", "style", strings.Join(parts, " "))
}

func (n *Node) setAttrQuiet(namespace, name, value string) {
	for i, a := range n.h.Attr {
		if a.Namespace == namespace && a.Key == name {
			n.h.Attr[i].Val = value
			return
		}
	}
	n.h.Attr = append(n.h.Attr, html.Attribute{Namespace: namespace, Key: name, Val: value})
}

func (n *Node) removeAttrQuiet(namespace, name string) bool {
	for i, a := range n.h.Attr {
		if a.Namespace == namespace && a.Key == name {
			n.h.Attr = slices.Delete(n.h.Attr, i, i+1)
			return true
		}
	}
	return false
}

func qualified(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}
