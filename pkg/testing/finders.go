package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
)

// Finder locates descriptors in the bound tree.
type Finder interface {
	// Evaluate returns all matching descriptors under root (depth-first
	// pre-order, root included).
	Evaluate(root *core.Node) []*core.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*core.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *core.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no descriptors: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *core.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *core.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*core.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// DOM returns the render-target node of the first match. Panics if no
// matches.
func (r FinderResult) DOM() *dom.Node {
	return r.First().DOM()
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

// ByType returns a finder that matches descriptors of type t.
func ByType(t core.Type) Finder {
	return &predicateFinder{
		fn:   func(n *core.Node) bool { return n.Type == t },
		desc: fmt.Sprintf("ByType(%s)", t.Name()),
	}
}

// ByTag returns a finder that matches host descriptors with the given tag.
func ByTag(tag string) Finder {
	return &predicateFinder{
		fn:   func(n *core.Node) bool { return n.Type.Kind() == core.KindHost && n.Type.Tag() == tag },
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByKey returns a finder that matches descriptors whose key equals key.
func ByKey(key any) Finder {
	return &predicateFinder{
		fn:   func(n *core.Node) bool { return n.Key != nil && n.Key == key },
		desc: fmt.Sprintf("ByKey(%v)", key),
	}
}

// ByID returns a finder that matches host descriptors whose id prop is id.
func ByID(id string) Finder {
	return &predicateFinder{
		fn: func(n *core.Node) bool {
			v, ok := n.Props["id"].(string)
			return ok && v == id && n.Type.Kind() == core.KindHost
		},
		desc: fmt.Sprintf("ByID(%q)", id),
	}
}

// ByText returns a finder that matches text descriptors with exact content.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(n *core.Node) bool { return n.Type.Kind() == core.KindText && n.TextContent() == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches text descriptors whose
// content contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn: func(n *core.Node) bool {
			return n.Type.Kind() == core.KindText && strings.Contains(n.TextContent(), substring)
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// predicateFinder matches descriptors satisfying a predicate.
type predicateFinder struct {
	fn   func(*core.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *core.Node) []*core.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches descriptors satisfying fn.
func ByPredicate(fn func(*core.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds descriptors matching 'matching' that are
// descendants of descriptors matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *core.Node) []*core.Node {
	var results []*core.Node
	seen := make(map[*core.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		// Search within each ancestor's subtree, skipping the ancestor.
		for _, child := range ancestor.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches descriptors satisfying
// 'matching' that are descendants of descriptors matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

func collectMatches(root *core.Node, fn func(*core.Node) bool) []*core.Node {
	var results []*core.Node
	var walk func(n *core.Node)
	walk = func(n *core.Node) {
		if n == nil {
			return
		}
		if fn(n) {
			results = append(results, n)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return results
}
