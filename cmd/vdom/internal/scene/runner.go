package scene

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom"
)

// Options configure a scene run.
type Options struct {
	// Document is rendered into. A fresh document is used when nil.
	Document *dom.Document
	// Hooks are passed to the renderer.
	Hooks core.Hooks
	// Logger receives renderer debug output.
	Logger *zap.Logger
	// Verbose adds each step's mutation log to the output.
	Verbose bool
	// BeforeStep runs before step i (zero-based) is applied.
	BeforeStep func(i int)
	// AfterStep runs after step i was printed.
	AfterStep func(i int) error
}

// Run replays s, writing each step's markup and lifecycle journal to w.
// Render failures are printed and do not stop the run.
func Run(s *Scene, w io.Writer, opts Options) error {
	doc := opts.Document
	if doc == nil {
		doc = dom.NewDocument()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	journal := &Journal{}
	reg := NewRegistry(journal)
	r := core.NewRenderer(doc, core.Options{Hooks: opts.Hooks, Logger: logger})

	for i, step := range s.Steps {
		if opts.BeforeStep != nil {
			opts.BeforeStep(i)
		}
		doc.ResetMutations()

		name := step.Name
		if name == "" {
			name = "step"
		}
		fmt.Fprintf(w, "== %d %s\n", i+1, name)

		err := apply(r, reg, doc, step)
		fmt.Fprintln(w, doc.String())
		if err != nil {
			logger.Debug("step failed", zap.Int("step", i+1), zap.Error(err))
			fmt.Fprintf(w, "-- error\n%v\n", err)
		}

		if entries := journal.Take(); len(entries) > 0 {
			fmt.Fprintln(w, "-- lifecycle")
			for _, e := range entries {
				fmt.Fprintln(w, e)
			}
		}
		if opts.Verbose {
			if muts := doc.Mutations(); len(muts) > 0 {
				fmt.Fprintln(w, "-- mutations")
				for _, m := range muts {
					fmt.Fprintln(w, m)
				}
			}
		}

		if opts.AfterStep != nil {
			if err := opts.AfterStep(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func apply(r *core.Renderer, reg *Registry, doc *dom.Document, step Step) error {
	if step.Click != "" {
		el := doc.Root().FindByID(step.Click)
		if el == nil {
			return fmt.Errorf("click: no element with id %q", step.Click)
		}
		fired, err := el.Dispatch("click")
		if err != nil {
			return fmt.Errorf("click: %w", err)
		}
		if !fired {
			return fmt.Errorf("click: element %q has no click listener", step.Click)
		}
		return r.Flush()
	}

	tree, err := reg.Build(step.Tree)
	if err != nil {
		return err
	}
	return r.Render(tree, nil)
}
