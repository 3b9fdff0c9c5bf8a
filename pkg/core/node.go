package core

import (
	"fmt"
	"sync/atomic"

	"github.com/go-drift/vdom/pkg/dom"
)

// Kind classifies a descriptor type.
type Kind uint8

const (
	// KindText is a text (or empty) node.
	KindText Kind = iota
	// KindHost is a render-target element such as "div".
	KindHost
	// KindFunction is a stateless component function.
	KindFunction
	// KindClass is a stateful component class.
	KindClass
	// KindFragment groups children without a render-target node of its own.
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHost:
		return "host"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type is the closed set of things a descriptor can describe. Types are
// comparable; two descriptors describe "the same component" exactly when
// their types are equal.
type Type struct {
	kind  Kind
	tag   string
	fn    *Func
	class *Class
}

var (
	// TextType is the type of text descriptors.
	TextType = Type{kind: KindText}
	// FragmentType is the type of fragment descriptors.
	FragmentType = Type{kind: KindFragment}
)

// Tag returns the host type for an element tag.
func Tag(name string) Type {
	return Type{kind: KindHost, tag: name}
}

// Kind returns the type's classification.
func (t Type) Kind() Kind {
	return t.kind
}

// Tag returns the element tag for host types and "" otherwise.
func (t Type) Tag() string {
	return t.tag
}

// IsComponent reports whether the type runs the component lifecycle.
func (t Type) IsComponent() bool {
	return t.kind == KindFunction || t.kind == KindClass
}

// Name returns a human-readable name used in logs and errors.
func (t Type) Name() string {
	switch t.kind {
	case KindText:
		return "#text"
	case KindHost:
		return t.tag
	case KindFunction:
		if t.fn != nil && t.fn.Name != "" {
			return t.fn.Name
		}
		return "Func"
	case KindClass:
		if t.class != nil && t.class.Name != "" {
			return t.class.Name
		}
		return "Class"
	case KindFragment:
		return "Fragment"
	default:
		return t.kind.String()
	}
}

func (t Type) String() string {
	return t.Name()
}

func (t Type) contextType() *ContextChannel {
	switch t.kind {
	case KindFunction:
		return t.fn.ContextType
	case KindClass:
		return t.class.ContextType
	}
	return nil
}

// Reserved prop names.
const (
	ChildrenProp = "children"
	KeyProp      = "key"
	RefProp      = "ref"
	ValueProp    = "value"
	CheckedProp  = "checked"
	RawHTMLProp  = "dangerouslySetInnerHTML"
	TextProp     = "text"
	RenderProp   = "render"
)

// Props maps attribute and child names to values.
type Props map[string]any

// Children returns the structured children declared in props.
func (p Props) Children() []*Node {
	v, ok := p[ChildrenProp]
	if !ok {
		return nil
	}
	if nodes, ok := v.([]*Node); ok {
		return nodes
	}
	return flatten(nil, []any{v})
}

// Has reports whether name is declared, even with a nil value.
func (p Props) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// RawHTML is the payload of the dangerouslySetInnerHTML prop.
type RawHTML struct {
	HTML string
}

func (p Props) rawHTML() (string, bool) {
	switch v := p[RawHTMLProp].(type) {
	case RawHTML:
		return v.HTML, true
	case *RawHTML:
		if v != nil {
			return v.HTML, true
		}
	}
	return "", false
}

// State is a component's state object.
type State map[string]any

type mark struct{ _ byte }

// trusted is carried by every descriptor built through H and friends.
var trusted = &mark{}

var renderIDs atomic.Uint64

func nextRenderID() uint64 {
	return renderIDs.Add(1)
}

// Node describes one desired UI unit. Build nodes with H, El, Text or
// Fragment; nodes assembled any other way are ignored by the renderer.
type Node struct {
	Type  Type
	Props Props
	Key   any

	renderID uint64
	origin   *mark
	handle   Handle
	dom      *dom.Node
	children []*Node
}

// H builds a descriptor. A "key" entry in props becomes the node key.
// Children may be nodes, slices of nodes, strings or numbers; nil and bool
// children are dropped.
func H(t Type, props Props, children ...any) *Node {
	n := &Node{Type: t, renderID: nextRenderID(), origin: trusted}
	normalized := make(Props, len(props)+1)
	for k, v := range props {
		if k == KeyProp {
			n.Key = v
			continue
		}
		normalized[k] = v
	}
	if len(children) > 0 {
		normalized[ChildrenProp] = flatten(nil, children)
	}
	n.Props = normalized
	return n
}

// El builds a host element descriptor.
func El(tag string, props Props, children ...any) *Node {
	return H(Tag(tag), props, children...)
}

// Text builds a text descriptor.
func Text(s string) *Node {
	return &Node{
		Type:     TextType,
		Props:    Props{TextProp: s},
		renderID: nextRenderID(),
		origin:   trusted,
	}
}

// Fragment builds a fragment descriptor. A nil key makes it transparent
// when returned from a component.
func Fragment(key any, children ...any) *Node {
	n := H(FragmentType, nil, children...)
	n.Key = key
	return n
}

// Trusted reports whether n was built by this package.
func (n *Node) Trusted() bool {
	return n != nil && n.origin == trusted
}

// RenderID returns the render-pass identity; 0 means invalidated.
func (n *Node) RenderID() uint64 {
	return n.renderID
}

// DOM returns the render-target node this descriptor is bound to. For
// components and fragments it is the first node they produced.
func (n *Node) DOM() *dom.Node {
	return n.dom
}

// Children returns the child descriptors recorded by the last diff.
func (n *Node) Children() []*Node {
	return n.children
}

// TextContent returns the text of a text descriptor.
func (n *Node) TextContent() string {
	s, _ := n.Props[TextProp].(string)
	return s
}

func (n *Node) bound() bool {
	return !n.handle.IsZero()
}

// clone copies a descriptor that is already bound elsewhere, keeping its
// render-pass identity so unchanged subtrees still short-circuit.
func (n *Node) clone() *Node {
	return &Node{
		Type:     n.Type,
		Props:    n.Props,
		Key:      n.Key,
		renderID: n.renderID,
		origin:   n.origin,
	}
}

func flatten(out []*Node, children []any) []*Node {
	for _, c := range children {
		switch v := c.(type) {
		case nil, bool:
		case *Node:
			if v != nil {
				out = append(out, v)
			}
		case []*Node:
			for _, n := range v {
				if n != nil {
					out = append(out, n)
				}
			}
		case []any:
			out = flatten(out, v)
		case string:
			out = append(out, Text(v))
		case fmt.Stringer:
			out = append(out, Text(v.String()))
		default:
			out = append(out, Text(fmt.Sprint(v)))
		}
	}
	return out
}
