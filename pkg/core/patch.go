package core

import (
	"github.com/go-drift/vdom/pkg/dom"
)

// Patch diffs newNode against oldNode, the descriptor last diffed at the
// same position, and applies the difference to the render target. It binds
// newNode to oldNode's record. Failures are routed to the error boundary and
// leave newNode with a zero render id and the previous output; Patch itself
// never fails.
//
// Post-commit callbacks are added to q; the caller drains it once the whole
// pass is applied.
func (r *Renderer) Patch(newNode, oldNode *Node, ctx Context, isSvg bool, q *CommitQueue) {
	if !newNode.Trusted() {
		return
	}
	if r.hooks.BeforeDiff != nil {
		r.hooks.BeforeDiff(newNode)
	}
	if err := r.patch(newNode, oldNode, ctx, isSvg, q); err != nil {
		newNode.renderID = 0
		if oldNode != nil && newNode.handle == oldNode.handle {
			// The failed descriptor stands in for the old one, so it
			// keeps the old output until the boundary replaces it.
			if newNode.children == nil {
				newNode.children = oldNode.children
			}
			if newNode.dom == nil {
				newNode.dom = oldNode.dom
			}
		}
		r.catchError(err, newNode, oldNode)
		return
	}
	if r.hooks.AfterDiff != nil {
		r.hooks.AfterDiff(newNode)
	}
}

func (r *Renderer) patch(newNode, oldNode *Node, ctx Context, isSvg bool, q *CommitQueue) error {
	if oldNode == nil {
		return structureError("core.patch", newNode, "no previous descriptor to diff against")
	}
	rec, ok := r.records.get(oldNode.handle)
	if !ok {
		return structureError("core.patch", newNode, "previous descriptor has no live record")
	}
	if rec.typ != newNode.Type {
		return structureError("core.patch", newNode, "type changed from %s", rec.typ)
	}
	newNode.handle = oldNode.handle
	rec.context = ctx
	rec.isSvg = isSvg

	switch newNode.Type.kind {
	case KindFunction, KindClass:
		if rec.instance == nil {
			return structureError("core.patch", newNode, "component record has no instance")
		}
		out, err := r.renderComponent(newNode, rec, ctx, q)
		if err != nil {
			return err
		}
		if out.skip {
			newNode.children = oldNode.children
			newNode.dom = oldNode.dom
			break
		}
		if err := r.reconcileChildren(rec.parentDom, out.children, newNode, oldNode, out.context, isSvg, q, r.DomSibling(oldNode, 0)); err != nil {
			return err
		}
		newNode.dom = firstDom(newNode.children)

	case KindFragment:
		if err := r.reconcileChildren(rec.parentDom, newNode.Props.Children(), newNode, oldNode, ctx, isSvg, q, r.DomSibling(oldNode, 0)); err != nil {
			return err
		}
		newNode.dom = firstDom(newNode.children)
		rec.props = newNode.Props

	default:
		if newNode.renderID != 0 && newNode.renderID == oldNode.renderID {
			newNode.children = oldNode.children
			newNode.dom = oldNode.dom
		} else if err := r.patchElement(newNode, oldNode, rec, ctx, isSvg, q); err != nil {
			return err
		}
		rec.props = newNode.Props
	}

	rec.node = newNode
	rec.renderID = newNode.renderID
	return nil
}

// patchElement diffs a text or host descriptor against the one bound to the
// same render-target node.
func (r *Renderer) patchElement(newNode, oldNode *Node, rec *Record, ctx Context, isSvg bool, q *CommitQueue) error {
	el := oldNode.dom
	if el == nil {
		return structureError("core.patchElement", newNode, "previous descriptor has no render-target node")
	}
	newNode.dom = el

	if newNode.Type.kind == KindText {
		if !sameMap(newNode.Props, oldNode.Props) {
			rec.flags |= FlagNeedsUpdate
		}
		return nil
	}

	tag := newNode.Type.tag
	isSvg = tag == "svg" || isSvg
	newProps, oldProps := newNode.Props, oldNode.Props

	newHTML, hasNew := newProps.rawHTML()
	oldHTML, hasOld := oldProps.rawHTML()
	if hasNew || hasOld {
		if !hasNew || ((!hasOld || newHTML != oldHTML) && newHTML != el.InnerHTML()) {
			if err := el.SetInnerHTML(newHTML); err != nil {
				return targetError("core.patchElement", newNode, err)
			}
		}
	}

	if err := r.props.DiffProps(el, newProps, oldProps, isSvg); err != nil {
		return targetError("core.patchElement", newNode, err)
	}

	if hasNew {
		for _, c := range oldNode.children {
			r.unmount(c, true)
		}
		newNode.children = nil
	} else {
		childSvg := isSvg && tag != "foreignObject"
		if err := r.reconcileChildren(el, newProps.Children(), newNode, oldNode, ctx, childSvg, q, r.DomSibling(oldNode, 0)); err != nil {
			return err
		}
	}

	if err := r.syncControlled(el, tag, newProps); err != nil {
		return targetError("core.patchElement", newNode, err)
	}
	return nil
}

// syncControlled writes the value and checked props when they differ from
// the node's live state, which user interaction may have changed.
func (r *Renderer) syncControlled(el *dom.Node, tag string, props Props) error {
	if v := props[ValueProp]; v != nil && (!sameValue(v, el.Value()) || (tag == "progress" && falsy(v))) {
		if err := r.props.SetProperty(el, ValueProp, v, nil, false); err != nil {
			return err
		}
	}
	if v := props[CheckedProp]; v != nil && !sameValue(v, el.Checked()) {
		if err := r.props.SetProperty(el, CheckedProp, v, nil, false); err != nil {
			return err
		}
	}
	return nil
}

// refreshText rewrites a text node flagged during its diff.
func (r *Renderer) refreshText(n *Node) {
	if n.Type.kind != KindText {
		return
	}
	rec, ok := r.records.get(n.handle)
	if !ok || rec.flags&FlagNeedsUpdate == 0 {
		return
	}
	rec.flags &^= FlagNeedsUpdate
	if n.dom != nil {
		if text := n.TextContent(); n.dom.Text() != text {
			n.dom.SetText(text)
		}
	}
}
