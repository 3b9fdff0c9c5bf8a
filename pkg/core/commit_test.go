package core

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/vdom/pkg/errors"
)

func TestCommitQueue_DrainsInOrderOnce(t *testing.T) {
	var q CommitQueue
	var ran []string
	q.Add(nil, "first", func() { ran = append(ran, "first") })
	q.Add(nil, "second", func() {
		ran = append(ran, "second")
		q.Add(nil, "late", func() { ran = append(ran, "late") })
	})
	assert.Equal(t, 2, q.Len())

	q.Drain(nil)
	assert.Equal(t, []string{"first", "second", "late"}, ran)
	assert.Zero(t, q.Len())

	q.Drain(nil)
	assert.Len(t, ran, 3, "entries never run twice")
}

func TestCommitQueue_PanicDoesNotStopDrain(t *testing.T) {
	var q CommitQueue
	rec := &Record{typ: (&Class{Name: "Widget"}).Type()}
	ran := false
	q.Add(rec, "DidMount", func() { panic("boom") })
	q.Add(nil, "after", func() { ran = true })

	var failures []error
	q.Drain(func(r *Record, err error) {
		assert.Same(t, rec, r)
		failures = append(failures, err)
	})

	assert.True(t, ran)
	require.Len(t, failures, 1)
	var le *errors.LifecycleError
	require.True(t, stderrors.As(failures[0], &le))
	assert.Equal(t, "Widget", le.Component)
	assert.Equal(t, "DidMount", le.Hook)
	assert.Equal(t, "boom", le.Recovered)
}

func TestCommitQueue_SkipsUnmountedRecords(t *testing.T) {
	var q CommitQueue
	rec := &Record{}
	ran := false
	q.Add(rec, "DidMount", func() { ran = true })
	rec.flags |= FlagUnmounted

	q.Drain(nil)
	assert.False(t, ran)
}
