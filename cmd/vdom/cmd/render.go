package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/vdom/cmd/vdom/internal/scene"
	"github.com/go-drift/vdom/cmd/vdom/internal/trace"
	"github.com/go-drift/vdom/pkg/dom"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Trace string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render SCENE.yaml",
		Short: "Replay a scene and print every step",
		Long: `Render a scene file step by step. After each step the document markup
is printed, followed by the lifecycle hooks that ran.

With --trace, every diff, render, commit, unmount and document mutation is
recorded in a sqlite database for "vdom trace".

Examples:
  vdom render scenes/counter.yaml
  vdom render --trace runs.db --verbose scenes/counter.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Trace, "trace", "", "record the run in this sqlite database")

	return cmd
}

func runRender(opts *RenderOptions, cmd *cobra.Command, path string) error {
	loader, err := scene.NewLoader(scene.Components())
	if err != nil {
		return err
	}
	s, err := loader.Load(path)
	if err != nil {
		return err
	}

	runOpts := scene.Options{
		Logger:  opts.Logger,
		Verbose: opts.Config.Verbose,
	}

	db := opts.Trace
	if db == "" {
		db = opts.Config.TraceDB
	}
	if db == "" {
		return scene.Run(s, cmd.OutOrStdout(), runOpts)
	}

	ctx := cmd.Context()
	st, err := trace.Open(db)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.BeginRun(ctx, opts.Config.ProjectName, filepath.Base(path))
	if err != nil {
		return err
	}

	rec := trace.NewRecorder()
	doc := dom.NewDocument()
	rec.Observe(doc)
	runOpts.Document = doc
	runOpts.Hooks = rec.Hooks()
	runOpts.BeforeStep = rec.SetStep
	runOpts.AfterStep = func(int) error {
		return rec.Flush(ctx, st, run.ID)
	}

	if err := scene.Run(s, cmd.OutOrStdout(), runOpts); err != nil {
		return err
	}
	opts.Logger.Info("trace recorded", zap.String("run", run.ID), zap.String("db", db))
	fmt.Fprintf(cmd.OutOrStdout(), "trace run %s\n", run.ID)
	return nil
}
