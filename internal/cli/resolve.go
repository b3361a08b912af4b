package cli

import (
	"context"

	"github.com/spf13/cobra"

	"apibaseline/internal/app"
	"apibaseline/internal/shared"
)

type resolveOptions struct {
	Index             []string
	Requirements      string
	Resources         []string
	Policy            string
	Effective         []string
	FirstMatch        bool
	FailOnUnsatisfied bool
	OutputDir         string
	Parallelism       int
}

var resolveFlagKeys = map[string]string{
	"index":               "index",
	"requirements":        "requirements",
	"resource":            "resources",
	"policy":              "policy",
	"effective":           "effective",
	"first-match":         "first_match",
	"fail-on-unsatisfied": "fail_on_unsatisfied",
	"output":              "output",
	"parallelism":         "parallelism",
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Wire requirements to capabilities through the resolution filters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bindFlags(cmd, resolveFlagKeys)
			return runResolve(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Index, "index", nil, "Capability index file(s), later files override earlier ones")
	cmd.Flags().StringVar(&opts.Requirements, "requirements", "", "Requirements file path")
	cmd.Flags().StringSliceVar(&opts.Resources, "resource", nil, "Root resource ID(s) from the index")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "Policy file path")
	cmd.Flags().StringSliceVar(&opts.Effective, "effective", nil, "Additional effective directive values to resolve")
	cmd.Flags().BoolVar(&opts.FirstMatch, "first-match", false, "Keep only the first candidate per requirement")
	cmd.Flags().BoolVar(&opts.FailOnUnsatisfied, "fail-on-unsatisfied", true, "Fail when a mandatory requirement has no candidate")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Directory for report and lock files")
	cmd.Flags().IntVar(&opts.Parallelism, "parallelism", 0, "Concurrent candidate filtering")

	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	renderer, err := newRenderer()
	if err != nil {
		return err
	}
	result, resolveErr := newAppService().Resolve(ctx, app.ResolveRequest{
		IndexPaths:        resolveStrings(cmd, opts.Index, "index", "index"),
		RequirementsPath:  resolveString(cmd, opts.Requirements, "requirements", "requirements"),
		Resources:         resolveStrings(cmd, opts.Resources, "resources", "resource"),
		PolicyPath:        resolveString(cmd, opts.Policy, "policy", "policy"),
		Effective:         resolveStrings(cmd, opts.Effective, "effective", "effective"),
		FirstMatch:        resolveBool(cmd, opts.FirstMatch, "first_match", "first-match"),
		FailOnUnsatisfied: resolveOptionalBool(cmd, opts.FailOnUnsatisfied, "fail_on_unsatisfied", "fail-on-unsatisfied"),
		OutputDir:         resolveString(cmd, opts.OutputDir, "output", "output"),
		Parallelism:       resolveInt(cmd, opts.Parallelism, "parallelism", "parallelism"),
	})
	if resolveErr != nil && !shared.IsUnsatisfiedRequirement(resolveErr) {
		return resolveErr
	}
	printHints(result.Hints)
	if err := renderer.RenderResolution(cmd.OutOrStdout(), result.Report); err != nil {
		return err
	}
	return resolveErr
}
