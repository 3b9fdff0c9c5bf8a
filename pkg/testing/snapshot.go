package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/go-drift/vdom/pkg/core"
)

// Snapshot captures the bound descriptor tree and the document markup.
type Snapshot struct {
	HTML string        `json:"html"`
	Tree *SnapshotNode `json:"tree,omitempty"`
}

// SnapshotNode represents a descriptor in the serialized tree.
type SnapshotNode struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"`
	Key      any             `json:"key,omitempty"`
	Text     string          `json:"text,omitempty"`
	Props    map[string]any  `json:"props,omitempty"`
	Children []*SnapshotNode `json:"children,omitempty"`
}

// CaptureSnapshot captures the current tree and markup.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{HTML: t.HTML()}
	if root := t.Root(); root != nil {
		snap.Tree = captureNode(root, &typeCounter{})
	}
	return snap
}

// MatchesGolden compares this snapshot against
// testdata/snapshots/<name>.snapshot.json. Run the tests with -update to
// rewrite the file.
func (s *Snapshot) MatchesGolden(t *testing.T, name string) {
	t.Helper()

	data, err := marshalSnapshot(s)
	if err != nil {
		t.Fatalf("failed to marshal snapshot: %v", err)
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/snapshots"),
		goldie.WithNameSuffix(".snapshot.json"),
	)
	g.Assert(t, name, data)
}

// Equal reports whether both snapshots serialize identically.
func (s *Snapshot) Equal(other *Snapshot) bool {
	a, errA := marshalSnapshot(s)
	b, errB := marshalSnapshot(other)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// --- Internal ---

// typeCounter assigns stable IDs like "li#0", "li#1".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func captureNode(n *core.Node, counter *typeCounter) *SnapshotNode {
	node := &SnapshotNode{
		ID:   counter.next(n.Type.Name()),
		Kind: n.Type.Kind().String(),
		Key:  n.Key,
	}
	if n.Type.Kind() == core.KindText {
		node.Text = n.TextContent()
	} else {
		node.Props = captureProperties(n.Props)
	}
	for _, c := range n.Children() {
		node.Children = append(node.Children, captureNode(c, counter))
	}
	return node
}

// captureProperties keeps the scalar props; children, listeners and other
// values without a stable serialization are dropped.
func captureProperties(props core.Props) map[string]any {
	var out map[string]any
	for name, v := range props {
		if name == core.ChildrenProp {
			continue
		}
		switch v.(type) {
		case string, bool, int, int64, float64:
		default:
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[name] = v
	}
	return out
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
