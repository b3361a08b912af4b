package cli

import (
	"context"

	"github.com/spf13/cobra"

	"apibaseline/internal/app"
)

type diffOptions struct {
	Older       string
	Newer       string
	Policy      string
	Ignore      []string
	OutputDir   string
	Parallelism int
}

var diffFlagKeys = map[string]string{
	"older":       "older",
	"newer":       "newer",
	"policy":      "policy",
	"ignore":      "ignore",
	"output":      "output",
	"parallelism": "parallelism",
}

func newDiffCommand() *cobra.Command {
	opts := diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two API snapshots and print the classified delta tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(cmd, diffFlagKeys)
			return runDiff(cmd.Context(), cmd, opts)
		},
	}
	addSnapshotFlags(cmd, &opts.Older, &opts.Newer, &opts.Policy, &opts.Ignore, &opts.OutputDir, &opts.Parallelism)
	return cmd
}

func addSnapshotFlags(cmd *cobra.Command, older, newer, policy *string, ignore *[]string, output *string, parallelism *int) {
	cmd.Flags().StringVar(older, "older", "", "Older (baseline) snapshot path")
	cmd.Flags().StringVar(newer, "newer", "", "Newer snapshot path")
	cmd.Flags().StringVar(policy, "policy", "", "Policy file path")
	cmd.Flags().StringSliceVar(ignore, "ignore", nil, "Element paths to leave out of the comparison")
	cmd.Flags().StringVar(output, "output", "", "Directory for report files")
	cmd.Flags().IntVar(parallelism, "parallelism", 0, "Concurrent subtree comparisons")
}

func runDiff(ctx context.Context, cmd *cobra.Command, opts diffOptions) error {
	renderer, err := newRenderer()
	if err != nil {
		return err
	}
	result, err := newAppService().Diff(ctx, app.DiffRequest{
		OlderPath:   resolveString(cmd, opts.Older, "older", "older"),
		NewerPath:   resolveString(cmd, opts.Newer, "newer", "newer"),
		PolicyPath:  resolveString(cmd, opts.Policy, "policy", "policy"),
		Ignore:      resolveStrings(cmd, opts.Ignore, "ignore", "ignore"),
		OutputDir:   resolveString(cmd, opts.OutputDir, "output", "output"),
		Parallelism: resolveInt(cmd, opts.Parallelism, "parallelism", "parallelism"),
	})
	if err != nil {
		return err
	}
	printHints(result.Hints)
	return renderer.RenderDiff(cmd.OutOrStdout(), result.Diff)
}
