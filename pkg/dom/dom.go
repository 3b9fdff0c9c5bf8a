// Package dom provides the mutable render target the reconciler writes to.
//
// A Document is a tree of golang.org/x/net/html nodes wrapped in [Node]
// values that add the state a live UI node carries beyond its markup:
// interactive properties (value, checked) that can drift from attributes,
// event listeners, and a parsed style object. Every mutation made through a
// Node is appended to the document's mutation log, which makes "nothing
// changed" an observable property in tests and traces.
//
// Nodes are created detached and become part of the tree once inserted:
//
//	doc := dom.NewDocument()
//	el := doc.CreateElement("p", false)
//	el.AppendChild(doc.CreateText("hello"))
//	doc.Root().AppendChild(el)
//	fmt.Println(doc.String()) // <p>hello</p>
package dom

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document owns a tree of nodes rooted at a container element.
type Document struct {
	root      *Node
	nodes     map[*html.Node]*Node
	mutations []Mutation

	// OnMutation, when set, observes every mutation after it is logged.
	OnMutation func(Mutation)
}

// NewDocument creates an empty document whose root is a <body> container.
func NewDocument() *Document {
	d := &Document{nodes: make(map[*html.Node]*Node)}
	d.root = d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	return d
}

// Root returns the container element.
func (d *Document) Root() *Node {
	return d.root
}

// CreateElement creates a detached element. svg places it in the SVG
// namespace.
func (d *Document) CreateElement(tag string, svg bool) *Node {
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if svg {
		h.Namespace = "svg"
	}
	return d.wrap(h)
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) *Node {
	return d.wrap(&html.Node{Type: html.TextNode, Data: text})
}

// Mutations returns the mutations logged since the last reset.
func (d *Document) Mutations() []Mutation {
	out := make([]Mutation, len(d.mutations))
	copy(out, d.mutations)
	return out
}

// ResetMutations clears the mutation log.
func (d *Document) ResetMutations() {
	d.mutations = d.mutations[:0]
}

// Render writes the markup of the root's children.
func (d *Document) Render(w io.Writer) error {
	for c := d.root.h.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// String returns the markup of the root's children.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func (d *Document) wrap(h *html.Node) *Node {
	if h == nil {
		return nil
	}
	if n, ok := d.nodes[h]; ok {
		return n
	}
	n := &Node{doc: d, h: h}
	d.nodes[h] = n
	return n
}

func (d *Document) forget(h *html.Node) {
	delete(d.nodes, h)
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

func (d *Document) record(m Mutation) {
	d.mutations = append(d.mutations, m)
	if d.OnMutation != nil {
		d.OnMutation(m)
	}
}
