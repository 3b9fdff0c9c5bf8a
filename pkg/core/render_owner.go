package core

import (
	"slices"
	"sync"
)

// RenderOwner tracks component records that need re-rendering.
type RenderOwner struct {
	dirty    []*Record
	dirtySet map[*Record]bool
	mu       sync.Mutex

	// OnNeedsRender is called when a new record is scheduled, signalling the
	// host that Renderer.Flush should run.
	OnNeedsRender func()
}

// NewRenderOwner creates a new RenderOwner.
func NewRenderOwner() *RenderOwner {
	return &RenderOwner{}
}

// Schedule marks a record as needing a re-render. Scheduling a record that
// is already pending is a no-op.
func (o *RenderOwner) Schedule(rec *Record) {
	added := func() bool {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.dirtySet[rec] {
			return false
		}
		if o.dirtySet == nil {
			o.dirtySet = make(map[*Record]bool)
		}
		o.dirtySet[rec] = true
		o.dirty = append(o.dirty, rec)
		return true
	}()

	if added && o.OnNeedsRender != nil {
		o.OnNeedsRender()
	}
}

// NeedsWork returns true if there are scheduled records.
func (o *RenderOwner) NeedsWork() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.dirty) > 0
}

// take removes and returns the pending records, shallowest first, so a
// parent re-render can absorb its children's.
func (o *RenderOwner) take() []*Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.dirty) == 0 {
		return nil
	}
	slices.SortStableFunc(o.dirty, func(a, b *Record) int {
		return a.depth - b.depth
	})
	dirty := o.dirty
	o.dirty = nil
	clear(o.dirtySet)
	return dirty
}
