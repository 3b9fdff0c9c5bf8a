package core

import (
	"strings"

	"github.com/go-drift/vdom/pkg/dom"
)

// Flags is the per-record bit set.
type Flags uint8

const (
	// FlagDirty marks a record whose component has a pending re-render.
	FlagDirty Flags = 1 << iota
	// FlagForceUpdate makes the next render ignore ShouldUpdate.
	FlagForceUpdate
	// FlagNeedsUpdate marks a text record whose content must be rewritten.
	FlagNeedsUpdate
	// FlagUnmounted marks a record whose subtree has been torn down.
	FlagUnmounted
)

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		flag Flags
		name string
	}{
		{FlagDirty, "dirty"},
		{FlagForceUpdate, "force"},
		{FlagNeedsUpdate, "update"},
		{FlagUnmounted, "unmounted"},
	} {
		if f&e.flag != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// Handle refers to a record in the renderer's arena. The zero Handle
// refers to nothing, and a handle goes stale once its record is released.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// Record is the long-lived per-position bookkeeping that survives between
// render passes. Descriptors are rebuilt on every render; a record persists
// until its position is unmounted.
type Record struct {
	handle    Handle
	typ       Type
	key       any
	props     Props
	flags     Flags
	renderID  uint64
	instance  Component
	node      *Node
	parent    *Record
	parentDom *dom.Node
	depth     int
	context   Context
	isSvg     bool
	provider  *providerComponent
}

// Type returns the type of the descriptors at this position.
func (r *Record) Type() Type { return r.typ }

// Props returns the props committed by the last diff.
func (r *Record) Props() Props { return r.props }

// Flags returns the current flag set.
func (r *Record) Flags() Flags { return r.flags }

// Instance returns the component instance, or nil for non-components.
func (r *Record) Instance() Component { return r.instance }

// Node returns the most recent descriptor diffed at this position.
func (r *Record) Node() *Node { return r.node }

// Parent returns the enclosing record, or nil at a root.
func (r *Record) Parent() *Record { return r.parent }

// Depth returns the distance from the root record.
func (r *Record) Depth() int { return r.depth }

func (r *Record) mounted() bool {
	return r.flags&FlagUnmounted == 0
}

type slot struct {
	gen uint32
	rec *Record
}

// arena owns every live record. Records are addressed by generational
// handles so a descriptor that outlives its position cannot reach a
// recycled record.
type arena struct {
	slots []slot
	free  []uint32
	live  int
}

func (a *arena) alloc(typ Type, parent *Record) *Record {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.gen++
	rec := &Record{handle: Handle{index: idx, gen: s.gen}, typ: typ, parent: parent}
	if parent != nil {
		rec.depth = parent.depth + 1
	}
	s.rec = rec
	a.live++
	return rec
}

func (a *arena) get(h Handle) (*Record, bool) {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[h.index]
	if s.gen != h.gen || s.rec == nil {
		return nil, false
	}
	return s.rec, true
}

func (a *arena) release(h Handle) {
	if _, ok := a.get(h); !ok {
		return
	}
	a.slots[h.index].rec = nil
	a.free = append(a.free, h.index)
	a.live--
}

func (a *arena) len() int {
	return a.live
}
