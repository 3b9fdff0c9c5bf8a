package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/vdom/cmd/vdom/internal/trace"
)

// TraceOptions holds flags for the trace commands.
type TraceOptions struct {
	*RootOptions
	Database string
	Kind     string
}

// NewTraceCommand creates the trace command and its list/show children.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded render traces",
		Long: `Inspect runs recorded with "vdom render --trace".

Examples:
  vdom trace list --db runs.db
  vdom trace show --db runs.db 01920c6e-...
  vdom trace show --db runs.db --kind commit 01920c6e-...`,
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceList(opts, cmd)
		},
	}

	show := &cobra.Command{
		Use:   "show RUN",
		Short: "Print the events of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceShow(opts, cmd, args[0])
		},
	}
	show.Flags().StringVar(&opts.Kind, "kind", "", "only show events of this kind (diff, render, commit, unmount, mutation)")

	cmd.AddCommand(list, show)
	return cmd
}

func runTraceList(opts *TraceOptions, cmd *cobra.Command) error {
	st, err := trace.Open(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Runs(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tPROJECT\tSCENE\tSTARTED\tEVENTS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", run.ID, run.Project, run.Scene, run.StartedAt.Format(time.RFC3339), run.Events)
	}
	return tw.Flush()
}

func runTraceShow(opts *TraceOptions, cmd *cobra.Command, id string) error {
	st, err := trace.Open(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	run, err := st.Run(ctx, id)
	if err != nil {
		return err
	}
	events, err := st.Events(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s\n", run.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "  project: %s\n  scene:   %s\n  started: %s\n  events:  %d\n",
		run.Project, run.Scene, run.StartedAt.Format(time.RFC3339), run.Events)
	for _, e := range events {
		if opts.Kind != "" && string(e.Kind) != opts.Kind {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), e)
	}
	return nil
}
