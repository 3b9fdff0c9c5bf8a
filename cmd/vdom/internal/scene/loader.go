// Package scene loads YAML scene files, builds descriptor trees from them
// and replays them against a renderer.
package scene

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Scene is a named sequence of steps.
type Scene struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step either renders a tree or clicks an element by id. A step with
// neither renders nothing, unmounting the previous tree.
type Step struct {
	Name  string    `yaml:"name"`
	Tree  *NodeSpec `yaml:"tree"`
	Click string    `yaml:"click"`
}

// NodeSpec describes one descriptor. Exactly one of Text, Tag and
// Component is set.
type NodeSpec struct {
	Text      *string        `yaml:"text"`
	Tag       string         `yaml:"tag"`
	Component string         `yaml:"component"`
	Key       string         `yaml:"key"`
	Props     map[string]any `yaml:"props"`
	Children  []NodeSpec     `yaml:"children"`
}

// Loader validates scene files against the embedded schema.
type Loader struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewLoader compiles the schema, restricting component references to
// components.
func NewLoader(components []string) (*Loader, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("no components registered")
	}
	quoted := make([]string, len(components))
	for i, name := range components {
		quoted[i] = strconv.Quote(name)
	}
	src := schemaCUE + "\n#ComponentName: " + strings.Join(quoted, " | ") + "\n"

	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling scene schema: %w", err)
	}
	schema := v.LookupPath(cue.ParsePath("#Scene"))
	if !schema.Exists() {
		return nil, fmt.Errorf("scene schema has no #Scene definition")
	}
	return &Loader{ctx: ctx, schema: schema}, nil
}

// Load reads and parses the scene file at path.
func (l *Loader) Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	s, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks data against the schema without decoding it.
func (l *Loader) Validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("empty scene")
	}

	v := l.ctx.Encode(raw)
	if err := v.Err(); err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	if err := l.schema.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid scene: %w", err)
	}
	return nil
}

// Parse validates and decodes data. Text content and string props are
// normalised to NFC.
func (l *Loader) Parse(data []byte) (*Scene, error) {
	if err := l.Validate(data); err != nil {
		return nil, err
	}

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	for i := range s.Steps {
		if s.Steps[i].Tree != nil {
			s.Steps[i].Tree.normalize()
		}
	}
	return &s, nil
}

func (n *NodeSpec) normalize() {
	if n.Text != nil {
		t := norm.NFC.String(*n.Text)
		n.Text = &t
	}
	for k, v := range n.Props {
		n.Props[k] = normalizeValue(v)
	}
	for i := range n.Children {
		n.Children[i].normalize()
	}
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case string:
		return norm.NFC.String(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
