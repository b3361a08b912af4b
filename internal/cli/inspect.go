package cli

import (
	"github.com/spf13/cobra"

	"apibaseline/internal/app"
)

type inspectOptions struct {
	OutputDir string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the reports written to an output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(cmd, map[string]string{"output": "output"})
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	renderer, err := newRenderer()
	if err != nil {
		return err
	}
	result, err := newAppService().Inspect(app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Diff != nil {
		if err := renderer.RenderDiff(out, *result.Diff); err != nil {
			return err
		}
	}
	if result.Baseline != nil {
		if err := renderer.RenderBaseline(out, *result.Baseline); err != nil {
			return err
		}
	}
	if result.Resolution != nil {
		if err := renderer.RenderResolution(out, *result.Resolution); err != nil {
			return err
		}
	}
	return nil
}
