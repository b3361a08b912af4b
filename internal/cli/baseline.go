package cli

import (
	"context"
	"maps"

	"github.com/spf13/cobra"

	"apibaseline/internal/app"
	"apibaseline/internal/shared"
)

type baselineOptions struct {
	diffOptions
	Skip          []string
	FailOnWarning bool
}

func newBaselineCommand() *cobra.Command {
	opts := baselineOptions{}
	keys := maps.Clone(diffFlagKeys)
	keys["skip"] = "skip"
	keys["fail-on-warning"] = "fail_on_warning"
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Check bundle and package version bumps against the detected changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(cmd, keys)
			return runBaseline(cmd.Context(), cmd, opts)
		},
	}
	addSnapshotFlags(cmd, &opts.Older, &opts.Newer, &opts.Policy, &opts.Ignore, &opts.OutputDir, &opts.Parallelism)
	cmd.Flags().StringSliceVar(&opts.Skip, "skip", nil, "Package name patterns reported but never flagged as mismatch")
	cmd.Flags().BoolVar(&opts.FailOnWarning, "fail-on-warning", false, "Treat excessive bumps as mismatches")
	return cmd
}

func runBaseline(ctx context.Context, cmd *cobra.Command, opts baselineOptions) error {
	renderer, err := newRenderer()
	if err != nil {
		return err
	}
	result, checkErr := newAppService().Baseline(ctx, app.BaselineRequest{
		OlderPath:     resolveString(cmd, opts.Older, "older", "older"),
		NewerPath:     resolveString(cmd, opts.Newer, "newer", "newer"),
		PolicyPath:    resolveString(cmd, opts.Policy, "policy", "policy"),
		Ignore:        resolveStrings(cmd, opts.Ignore, "ignore", "ignore"),
		Skip:          resolveStrings(cmd, opts.Skip, "skip", "skip"),
		FailOnWarning: resolveBool(cmd, opts.FailOnWarning, "fail_on_warning", "fail-on-warning"),
		OutputDir:     resolveString(cmd, opts.OutputDir, "output", "output"),
		Parallelism:   resolveInt(cmd, opts.Parallelism, "parallelism", "parallelism"),
	})
	if checkErr != nil && !shared.IsBaselineMismatch(checkErr) {
		return checkErr
	}
	printHints(result.Hints)
	if err := renderer.RenderBaseline(cmd.OutOrStdout(), result.Report); err != nil {
		return err
	}
	return checkErr
}
