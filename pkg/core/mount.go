package core

import (
	"github.com/go-drift/vdom/pkg/dom"
)

// mount creates the record and render-target nodes for a descriptor with
// no previous counterpart. The produced nodes are left detached; the caller
// inserts them. Failures are routed to the error boundary.
func (r *Renderer) mount(node *Node, parent *Record, parentDom *dom.Node, ctx Context, isSvg bool, q *CommitQueue) {
	if !node.Trusted() {
		return
	}
	if r.hooks.BeforeDiff != nil {
		r.hooks.BeforeDiff(node)
	}
	if err := r.mountNode(node, parent, parentDom, ctx, isSvg, q); err != nil {
		node.renderID = 0
		r.catchError(err, node, nil)
		return
	}
	if r.hooks.AfterDiff != nil {
		r.hooks.AfterDiff(node)
	}
}

func (r *Renderer) mountNode(node *Node, parent *Record, parentDom *dom.Node, ctx Context, isSvg bool, q *CommitQueue) error {
	rec := r.records.alloc(node.Type, parent)
	rec.key = node.Key
	rec.props = node.Props
	rec.parentDom = parentDom
	rec.context = ctx
	rec.isSvg = isSvg
	rec.node = node
	rec.renderID = node.renderID
	node.handle = rec.handle

	switch node.Type.kind {
	case KindFunction, KindClass:
		out, err := r.renderComponent(node, rec, ctx, q)
		if err != nil {
			return err
		}
		r.mountChildren(node, out.children, rec, parentDom, out.context, isSvg, q)
		node.dom = firstDom(node.children)

	case KindFragment:
		r.mountChildren(node, node.Props.Children(), rec, parentDom, ctx, isSvg, q)
		node.dom = firstDom(node.children)

	case KindText:
		node.dom = r.doc.CreateText(node.TextContent())

	case KindHost:
		tag := node.Type.tag
		svg := tag == "svg" || isSvg
		el := r.doc.CreateElement(tag, svg)
		node.dom = el
		if err := r.props.DiffProps(el, node.Props, nil, svg); err != nil {
			return targetError("core.mount", node, err)
		}
		if html, ok := node.Props.rawHTML(); ok {
			if html != "" {
				if err := el.SetInnerHTML(html); err != nil {
					return targetError("core.mount", node, err)
				}
			}
		} else {
			r.mountChildren(node, node.Props.Children(), rec, el, ctx, svg && tag != "foreignObject", q)
			for _, c := range node.children {
				for _, d := range domNodes(c) {
					el.AppendChild(d)
				}
			}
		}
		if err := r.syncControlled(el, tag, node.Props); err != nil {
			return targetError("core.mount", node, err)
		}
	}
	return nil
}

func (r *Renderer) mountChildren(node *Node, children []*Node, rec *Record, parentDom *dom.Node, ctx Context, isSvg bool, q *CommitQueue) {
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if !c.Trusted() {
			continue
		}
		if c.bound() {
			c = c.clone()
		}
		r.mount(c, rec, parentDom, ctx, isSvg, q)
		out = append(out, c)
	}
	node.children = out
}

// unmount tears down the subtree at node: WillUnmount hooks run parent
// first, records are released, and render-target nodes are detached unless
// an ancestor's removal already takes them along.
func (r *Renderer) unmount(node *Node, skipRemove bool) {
	if node == nil {
		return
	}
	if r.hooks.Unmount != nil {
		r.hooks.Unmount(node)
	}
	rec, ok := r.records.get(node.handle)
	if ok {
		rec.flags |= FlagUnmounted
		if c := rec.instance; c != nil {
			if u, isUnmounter := c.(WillUnmounter); isUnmounter {
				if err := invoke(rec.typ.Name(), "WillUnmount", u.WillUnmount); err != nil {
					r.catchError(err, node, nil)
				}
			}
			c.base().runDisposers()
		}
		if rec.provider != nil {
			rec.provider.unsubscribe(rec)
			rec.provider = nil
		}
	}

	host := node.Type.kind == KindHost || node.Type.kind == KindText
	for _, c := range node.children {
		r.unmount(c, skipRemove || host)
	}
	if host && !skipRemove && node.dom != nil {
		node.dom.Remove()
	}

	if ok {
		if c := rec.instance; c != nil {
			c.base().record = nil
		}
		r.records.release(rec.handle)
	}
}
