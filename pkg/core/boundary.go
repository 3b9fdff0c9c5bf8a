package core

import (
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/vdom/pkg/errors"
)

var errNilInstance = stderrors.New("constructor returned no instance")

// ErrorBoundary receives every failure caught during a pass. failing is the
// descriptor whose diff failed; previous is the descriptor it was being
// diffed against, nil on mount.
type ErrorBoundary interface {
	CatchError(err error, failing, previous *Node)
}

// ErrorBoundaryFunc adapts a function to ErrorBoundary.
type ErrorBoundaryFunc func(err error, failing, previous *Node)

// CatchError calls f.
func (f ErrorBoundaryFunc) CatchError(err error, failing, previous *Node) {
	f(err, failing, previous)
}

// treeBoundary walks up from the failing position to the nearest component
// that can absorb the error: one whose class derives state from errors or
// whose instance implements ErrorCatcher. Errors nobody absorbs are reported
// to the global handler and surfaced by Render and Flush.
type treeBoundary struct {
	r *Renderer
}

func (b treeBoundary) CatchError(err error, failing, previous *Node) {
	r := b.r
	var rec *Record
	for _, n := range []*Node{failing, previous} {
		if n == nil {
			continue
		}
		if found, ok := r.records.get(n.handle); ok {
			rec = found.parent
			break
		}
	}

	for ; rec != nil; rec = rec.parent {
		c := rec.instance
		if c == nil || !rec.mounted() {
			continue
		}
		name := rec.typ.Name()
		handled := false
		if rec.typ.kind == KindClass && rec.typ.class.DeriveStateFromError != nil {
			var patch State
			if e := invoke(name, "DeriveStateFromError", func() { patch = rec.typ.class.DeriveStateFromError(err) }); e != nil {
				err = e
				continue
			}
			c.base().SetState(patch)
			handled = true
		}
		if catcher, ok := c.(ErrorCatcher); ok {
			if e := invoke(name, "DidCatch", func() { catcher.DidCatch(err) }); e != nil {
				err = e
				continue
			}
			handled = true
		}
		if handled {
			c.base().ForceUpdate()
			r.logger.Debug("error absorbed by boundary",
				zap.String("boundary", name),
				zap.Error(err),
			)
			return
		}
	}
	r.unhandled = append(r.unhandled, err)
	report(err)
}

func (r *Renderer) catchError(err error, failing, previous *Node) {
	r.logger.Debug("diff failed", zap.String("node", nodeName(failing)), zap.Error(err))
	r.boundary.CatchError(err, failing, previous)
}

func (r *Renderer) takeUnhandled() error {
	if len(r.unhandled) == 0 {
		return nil
	}
	err := stderrors.Join(r.unhandled...)
	r.unhandled = nil
	return err
}

// report forwards an unabsorbed error to the global handler.
func report(err error) {
	var le *errors.LifecycleError
	var re *errors.ReconcileError
	switch {
	case stderrors.As(err, &le):
		errors.ReportLifecycleError(le)
	case stderrors.As(err, &re):
		errors.Report(re)
	default:
		errors.Report(&errors.ReconcileError{
			Op:        "core.Renderer",
			Kind:      errors.KindUnknown,
			Err:       err,
			Timestamp: time.Now(),
		})
	}
}

func structureError(op string, n *Node, format string, args ...any) error {
	return &errors.ReconcileError{
		Op:         op,
		Kind:       errors.KindStructure,
		Node:       nodeName(n),
		Err:        fmt.Errorf(format, args...),
		StackTrace: errors.CaptureStack(),
		Timestamp:  time.Now(),
	}
}

func targetError(op string, n *Node, err error) error {
	return &errors.ReconcileError{
		Op:         op,
		Kind:       errors.KindTarget,
		Node:       nodeName(n),
		Err:        err,
		StackTrace: errors.CaptureStack(),
		Timestamp:  time.Now(),
	}
}

func nodeName(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Type.Name()
}
