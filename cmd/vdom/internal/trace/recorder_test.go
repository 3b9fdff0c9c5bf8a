package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
)

type mounted struct {
	core.ComponentBase
}

func (m *mounted) Render(core.Props, core.State, any) *core.Node {
	return core.El("p", nil, "hi")
}

func (m *mounted) DidMount() {}

func TestRecorder_CapturesRendererActivity(t *testing.T) {
	rec := NewRecorder()
	doc := dom.NewDocument()
	rec.Observe(doc)
	r := core.NewRenderer(doc, core.Options{Hooks: rec.Hooks()})

	cls := &core.Class{Name: "Mounted", New: func(core.Props, any) core.Component { return &mounted{} }}
	require.NoError(t, r.Render(core.H(cls.Type(), nil), nil))
	rec.SetStep(1)
	require.NoError(t, r.Render(nil, nil))

	kinds := map[EventKind]int{}
	for _, e := range rec.Events() {
		kinds[e.Kind]++
	}
	assert.Positive(t, kinds[KindDiff])
	assert.Equal(t, 1, kinds[KindRender])
	assert.Equal(t, 1, kinds[KindCommit])
	assert.Positive(t, kinds[KindMutation])
	assert.Positive(t, kinds[KindUnmount])

	var commit Event
	for _, e := range rec.Events() {
		if e.Kind == KindCommit {
			commit = e
		}
	}
	assert.Equal(t, "Mounted", commit.Target)
	assert.Equal(t, "DidMount", commit.Detail)
	assert.Equal(t, 0, commit.Step)

	last := rec.Events()[len(rec.Events())-1]
	assert.Equal(t, 1, last.Step)
	for i, e := range rec.Events() {
		assert.Equal(t, i+1, e.Seq)
	}
}

func TestRecorder_FlushPersistsAndClears(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	run, err := s.BeginRun(ctx, "vdom", "x.yaml")
	require.NoError(t, err)

	rec := NewRecorder()
	rec.add(KindDiff, "div", "")
	rec.add(KindUnmount, "div", "key=a")
	require.NoError(t, rec.Flush(ctx, s, run.ID))
	assert.Empty(t, rec.Events())

	rec.add(KindDiff, "span", "")
	require.NoError(t, rec.Flush(ctx, s, run.ID))
	require.NoError(t, rec.Flush(ctx, s, run.ID), "empty flush is a no-op")

	events, err := s.Events(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 3, events[2].Seq)
	assert.Equal(t, "   2 [0] unmount  div key=a", events[1].String())
}
