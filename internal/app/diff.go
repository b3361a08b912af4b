package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"apibaseline/internal/core"
	"apibaseline/internal/policies"
	"apibaseline/internal/types"
)

func (s Service) Diff(ctx context.Context, req DiffRequest) (DiffResult, error) {
	policy, err := s.loadPolicy(req.PolicyPath)
	if err != nil {
		return DiffResult{}, err
	}
	diff, err := s.compareSnapshots(ctx, req.OlderPath, req.NewerPath, policy, req.Ignore, req.Parallelism)
	if err != nil {
		return DiffResult{}, err
	}
	s.Metrics.ObserveDiff(diff)

	outputDir := firstNonEmpty(req.OutputDir, policy.Defaults.Output)
	if outputDir != "" {
		if err := s.Reports(outputDir).WriteDiff(diff); err != nil {
			return DiffResult{}, err
		}
	}
	if err := s.Metrics.Flush(); err != nil {
		return DiffResult{}, err
	}
	return DiffResult{
		Diff:      diff,
		OutputDir: outputDir,
		Hints:     outputDefaultsHints(req.OutputDir, policy.Defaults),
	}, nil
}

// compareSnapshots loads, scopes and diffs two snapshots.
func (s Service) compareSnapshots(ctx context.Context, olderPath string, newerPath string, policy types.Policy, ignore []string, parallelism int) (types.Diff, error) {
	if strings.TrimSpace(olderPath) == "" || strings.TrimSpace(newerPath) == "" {
		return types.Diff{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("older and newer snapshot paths are required")
	}
	patterns := append(append([]string(nil), policy.Diff.Ignore...), ignore...)
	scope, err := policies.NewDiffScope(patterns)
	if err != nil {
		return types.Diff{}, err
	}
	older, err := s.Snapshots.LoadSnapshot(olderPath)
	if err != nil {
		return types.Diff{}, err
	}
	newer, err := s.Snapshots.LoadSnapshot(newerPath)
	if err != nil {
		return types.Diff{}, err
	}
	severities, err := policies.SeverityTable(policy.Diff.Severities)
	if err != nil {
		return types.Diff{}, err
	}
	differ := core.NewDiffer(core.DiffOptions{
		Policy:      severities,
		Parallelism: firstPositive(parallelism, policy.Defaults.Parallelism),
	})
	diff, err := differ.Diff(ctx, scope.Prune(older), scope.Prune(newer))
	if err != nil {
		return types.Diff{}, err
	}
	log.Ctx(ctx).Debug().
		Str("older", olderPath).
		Str("newer", newerPath).
		Str("delta", string(diff.Delta)).
		Int("ignore_patterns", len(patterns)).
		Msg("snapshots compared")
	return diff, nil
}
