package core

// CommitQueue collects post-commit callbacks (DidMount, DidUpdate) during a
// render pass. Callbacks run in the order they were added, after the whole
// pass has been applied to the render target.
type CommitQueue struct {
	entries []commitEntry
	next    int
}

type commitEntry struct {
	record *Record
	hook   string
	fn     func()
}

// Add appends a callback owned by rec.
func (q *CommitQueue) Add(rec *Record, hook string, fn func()) {
	q.entries = append(q.entries, commitEntry{record: rec, hook: hook, fn: fn})
}

// Len returns the number of callbacks not yet run.
func (q *CommitQueue) Len() int {
	return len(q.entries) - q.next
}

// Drain runs every pending callback once. Callbacks whose record has been
// unmounted since they were queued are dropped. A panicking callback is
// reported to onError and the rest still run. Callbacks added while
// draining run in the same drain.
func (q *CommitQueue) Drain(onError func(rec *Record, err error)) {
	for q.next < len(q.entries) {
		e := q.entries[q.next]
		q.next++
		if e.record != nil && !e.record.mounted() {
			continue
		}
		name := ""
		if e.record != nil {
			name = e.record.typ.Name()
		}
		if err := invoke(name, e.hook, e.fn); err != nil && onError != nil {
			onError(e.record, err)
		}
	}
	q.entries = nil
	q.next = 0
}
