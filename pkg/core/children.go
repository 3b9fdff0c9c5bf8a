package core

import (
	"github.com/go-drift/vdom/pkg/dom"
)

// reconcileChildren diffs children against the child list of oldParent,
// records the result on newParent, orders the produced render-target nodes
// inside parentDom starting at start, and finally unmounts old children
// that found no match.
//
// Children are matched by key and type; unkeyed children match an unkeyed
// old child of the same type, preferring the same index.
func (r *Renderer) reconcileChildren(parentDom *dom.Node, children []*Node, newParent, oldParent *Node, ctx Context, isSvg bool, q *CommitQueue, start *dom.Node) error {
	parentRec, ok := r.records.get(newParent.handle)
	if !ok {
		return structureError("core.reconcileChildren", newParent, "parent has no live record")
	}
	var old []*Node
	if oldParent != nil {
		old = oldParent.children
	}
	used := make([]bool, len(old))
	out := make([]*Node, 0, len(children))

	for i, child := range children {
		if !child.Trusted() {
			continue
		}
		if child.bound() {
			child = child.clone()
		}
		if j := matchChild(child, old, used, i); j >= 0 {
			used[j] = true
			r.Patch(child, old[j], ctx, isSvg, q)
			r.refreshText(child)
		} else {
			r.mount(child, parentRec, parentDom, ctx, isSvg, q)
		}
		out = append(out, child)
	}
	newParent.children = out

	cursor := start
	if cursor != nil && cursor.Parent() != parentDom {
		cursor = firstAttached(parentDom, out)
	}
	for _, child := range out {
		for _, d := range domNodes(child) {
			if d == cursor {
				cursor = cursor.NextSibling()
				continue
			}
			parentDom.InsertBefore(d, cursor)
		}
	}

	for j, o := range old {
		if !used[j] {
			r.unmount(o, false)
		}
	}
	return nil
}

func matchChild(child *Node, old []*Node, used []bool, i int) int {
	if child.Key != nil {
		for j, o := range old {
			if !used[j] && o != nil && o.Type == child.Type && sameValue(o.Key, child.Key) {
				return j
			}
		}
		return -1
	}
	if i < len(old) && !used[i] && old[i] != nil && old[i].Key == nil && old[i].Type == child.Type {
		return i
	}
	for j, o := range old {
		if !used[j] && o != nil && o.Key == nil && o.Type == child.Type {
			return j
		}
	}
	return -1
}

// DomSibling returns the first render-target node produced by node's
// children at or after childIndex. For components and fragments the search
// continues past node's own position in its parent. A negative childIndex
// starts the search after node itself.
func (r *Renderer) DomSibling(node *Node, childIndex int) *dom.Node {
	if node == nil {
		return nil
	}
	if childIndex < 0 {
		rec, ok := r.records.get(node.handle)
		if !ok || rec.parent == nil || rec.parent.node == nil {
			return nil
		}
		siblings := rec.parent.node.children
		for i, s := range siblings {
			if s == node {
				return r.DomSibling(rec.parent.node, i+1)
			}
		}
		return nil
	}
	for i := childIndex; i < len(node.children); i++ {
		if c := node.children[i]; c != nil && c.dom != nil {
			return c.dom
		}
	}
	if k := node.Type.kind; k == KindFunction || k == KindClass || k == KindFragment {
		return r.DomSibling(node, -1)
	}
	return nil
}

// domNodes returns the top-level render-target nodes produced by n, in
// order.
func domNodes(n *Node) []*dom.Node {
	return appendDomNodes(nil, n)
}

func appendDomNodes(out []*dom.Node, n *Node) []*dom.Node {
	if n == nil {
		return out
	}
	switch n.Type.kind {
	case KindHost, KindText:
		if n.dom != nil {
			out = append(out, n.dom)
		}
	default:
		for _, c := range n.children {
			out = appendDomNodes(out, c)
		}
	}
	return out
}

func firstDom(children []*Node) *dom.Node {
	for _, c := range children {
		if c != nil && c.dom != nil {
			return c.dom
		}
	}
	return nil
}

func firstAttached(parent *dom.Node, children []*Node) *dom.Node {
	owned := make(map[*dom.Node]bool)
	for _, c := range children {
		for _, d := range domNodes(c) {
			owned[d] = true
		}
	}
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if owned[c] {
			return c
		}
	}
	return nil
}
