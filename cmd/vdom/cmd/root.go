// Package cmd implements the vdom CLI commands.
//
// The root command resolves vdom.yaml and the logger once, then dispatches
// to render, validate and trace.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/vdom/cmd/vdom/internal/config"
	"github.com/go-drift/vdom/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// RootOptions holds global flags and the state resolved from them.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	Config *config.Resolved
	Logger *zap.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vdom",
		Short: "vdom - replay UI scenes through the reconciler",
		Long: `vdom renders scene files through the virtual DOM reconciler and prints
the resulting markup and component lifecycle after every step.

Use "vdom <command> --help" for more information about a command.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (default: vdom.yaml in the project root)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// Execute runs the CLI with os.Args, cancelling on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func (o *RootOptions) resolve() error {
	root, err := config.FindProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to locate project root: %w", err)
	}
	cfg, err := config.Resolve(root, o.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.Verbose {
		cfg.Verbose = true
	}

	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	o.Config = cfg
	o.Logger = logger
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: cfg.Verbose})
	return nil
}
