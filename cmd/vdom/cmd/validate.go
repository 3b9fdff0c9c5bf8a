package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/vdom/cmd/vdom/internal/scene"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate SCENE.yaml...",
		Short: "Check scene files against the scene schema",
		Long: `Validate one or more scene files without rendering them.

Examples:
  vdom validate scenes/counter.yaml
  vdom validate scenes/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args)
		},
	}
}

func runValidate(opts *RootOptions, cmd *cobra.Command, paths []string) error {
	loader, err := scene.NewLoader(scene.Components())
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			err = loader.Validate(data)
		}
		if err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", path)
			if opts.Config.Verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "  %v\n", err)
			}
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenes invalid", failed, len(paths))
	}
	return nil
}
