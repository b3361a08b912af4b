package app

import (
	"context"

	"apibaseline/internal/core"
)

// Baseline diffs two snapshots and checks every bundle and package version
// bump against the detected changes. The report is written before a
// mismatch error is returned.
func (s Service) Baseline(ctx context.Context, req BaselineRequest) (BaselineResult, error) {
	policy, err := s.loadPolicy(req.PolicyPath)
	if err != nil {
		return BaselineResult{}, err
	}
	diff, err := s.compareSnapshots(ctx, req.OlderPath, req.NewerPath, policy, req.Ignore, req.Parallelism)
	if err != nil {
		return BaselineResult{}, err
	}
	skip := append(append([]string(nil), policy.Baseline.Skip...), req.Skip...)
	report := core.Baseline(ctx, diff, core.BaselineOptions{Skip: skip})
	s.Metrics.ObserveDiff(diff)
	s.Metrics.ObserveBaseline(report)

	outputDir := firstNonEmpty(req.OutputDir, policy.Defaults.Output)
	if outputDir != "" {
		reports := s.Reports(outputDir)
		if err := reports.WriteDiff(diff); err != nil {
			return BaselineResult{}, err
		}
		if err := reports.WriteBaselineReport(report); err != nil {
			return BaselineResult{}, err
		}
	}
	if err := s.Metrics.Flush(); err != nil {
		return BaselineResult{}, err
	}
	result := BaselineResult{
		Report:    report,
		Diff:      diff,
		OutputDir: outputDir,
		Hints:     outputDefaultsHints(req.OutputDir, policy.Defaults),
	}
	failOnWarning := req.FailOnWarning || policy.Baseline.FailOnWarning
	if err := core.CheckBaseline(report, failOnWarning); err != nil {
		return result, err
	}
	return result, nil
}
