package scene

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(Components())
	require.NoError(t, err)
	return l
}

func TestRun_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenes", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	l := newTestLoader(t)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yaml")
		t.Run(name, func(t *testing.T) {
			s, err := l.Load(file)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Run(s, &buf, Options{}))
			g.Assert(t, name, buf.Bytes())
		})
	}
}

func TestRun_VerboseListsMutations(t *testing.T) {
	s := &Scene{Name: "v", Steps: []Step{{Name: "mount", Tree: &NodeSpec{Tag: "hr"}}}}

	var buf bytes.Buffer
	require.NoError(t, Run(s, &buf, Options{Verbose: true}))
	assert.True(t, strings.HasPrefix(buf.String(), "== 1 mount\n<hr/>\n-- mutations\n"))
	assert.Contains(t, buf.String(), `insert body "hr"`)
}

func TestRun_StepCallbacks(t *testing.T) {
	doc := dom.NewDocument()
	var before, after []int
	var diffs int
	s := &Scene{Name: "cb", Steps: []Step{
		{Tree: &NodeSpec{Tag: "p"}},
		{},
	}}

	var buf bytes.Buffer
	require.NoError(t, Run(s, &buf, Options{
		Document:   doc,
		Hooks:      core.Hooks{AfterDiff: func(*core.Node) { diffs++ }},
		BeforeStep: func(i int) { before = append(before, i) },
		AfterStep: func(i int) error {
			after = append(after, i)
			return nil
		},
	}))
	assert.Equal(t, []int{0, 1}, before)
	assert.Equal(t, []int{0, 1}, after)
	assert.Positive(t, diffs)
	assert.Empty(t, doc.String(), "an empty step unmounts the tree")
	assert.Contains(t, buf.String(), "== 2 step\n")
}

func TestRun_AfterStepErrorStops(t *testing.T) {
	s := &Scene{Name: "stop", Steps: []Step{{Tree: &NodeSpec{Tag: "p"}}, {Tree: &NodeSpec{Tag: "p"}}}}
	calls := 0
	err := Run(s, &bytes.Buffer{}, Options{AfterStep: func(int) error {
		calls++
		return os.ErrClosed
	}})
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.Equal(t, 1, calls)
}

func TestRun_ClickWithoutListener(t *testing.T) {
	text := "x"
	s := &Scene{Name: "c", Steps: []Step{
		{Tree: &NodeSpec{Tag: "p", Props: map[string]any{"id": "p"}, Children: []NodeSpec{{Text: &text}}}},
		{Click: "p"},
	}}

	var buf bytes.Buffer
	require.NoError(t, Run(s, &buf, Options{}))
	assert.Contains(t, buf.String(), `click: element "p" has no click listener`)
}

func TestRegistry_Build(t *testing.T) {
	reg := NewRegistry(&Journal{})
	text := "hi"

	n, err := reg.Build(&NodeSpec{
		Tag:      "div",
		Key:      "k",
		Props:    map[string]any{"id": "x"},
		Children: []NodeSpec{{Text: &text}, {Component: "greeting", Props: map[string]any{"name": "Ada"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "k", n.Key)
	assert.Equal(t, "div", n.Type.Tag())
	require.Len(t, n.Props.Children(), 2)
	assert.Equal(t, "greeting", n.Props.Children()[1].Type.Name())

	_, err = reg.Build(&NodeSpec{Component: "nope"})
	assert.ErrorContains(t, err, "unknown component")
	_, err = reg.Build(&NodeSpec{})
	assert.Error(t, err)

	n, err = reg.Build(nil)
	assert.NoError(t, err)
	assert.Nil(t, n)
}

func TestJournal_Take(t *testing.T) {
	j := &Journal{}
	j.Add("a", "Render")
	assert.Equal(t, []string{"a Render"}, j.Take())
	assert.Empty(t, j.Take())
}
