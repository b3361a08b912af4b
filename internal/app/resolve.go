package app

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"apibaseline/internal/core"
	"apibaseline/internal/policies"
	"apibaseline/internal/shared"
	"apibaseline/internal/types"
)

// Resolve wires root resources and requirements against the capability
// index through the policy's candidate filters. Reports are written even
// when mandatory requirements stay unsatisfied.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	policy, err := s.loadPolicy(req.PolicyPath)
	if err != nil {
		return ResolveResult{}, err
	}
	indexPaths := req.IndexPaths
	if len(indexPaths) == 0 && policy.Defaults.Index != "" {
		indexPaths = []string{policy.Defaults.Index}
	}
	if len(indexPaths) == 0 {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("capability index file is required")
	}

	resources := append([]string(nil), req.Resources...)
	var requirements []types.Requirement
	if path := strings.TrimSpace(req.RequirementsPath); path != "" {
		file, err := s.Requirements.LoadRequirements(path)
		if err != nil {
			return ResolveResult{}, err
		}
		resources = append(file.Resources, resources...)
		requirements = file.Requirements
	}
	if len(resources) == 0 && len(requirements) == 0 {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one resource or requirement is required")
	}

	resolvePolicy := policy.Resolve
	resolvePolicy.FirstMatch = resolvePolicy.FirstMatch || req.FirstMatch
	chain, records, err := policies.ResolutionFilters(resolvePolicy, s.now())
	if err != nil {
		return ResolveResult{}, err
	}

	failOnUnsatisfied := true
	if policy.Resolve.FailOnUnsatisfied != nil {
		failOnUnsatisfied = *policy.Resolve.FailOnUnsatisfied
	}
	if req.FailOnUnsatisfied != nil {
		failOnUnsatisfied = *req.FailOnUnsatisfied
	}

	resolver := core.NewResolverCore(s.Index(indexPaths...), chain)
	resolved, resolveErr := resolver.Resolve(ctx, resources, requirements, core.ResolveOptions{
		Effective:         append(append([]string(nil), policy.Resolve.Effective...), req.Effective...),
		FailOnUnsatisfied: failOnUnsatisfied,
		Parallelism:       firstPositive(req.Parallelism, policy.Defaults.Parallelism),
	})
	if resolveErr != nil && !shared.IsUnsatisfiedRequirement(resolveErr) {
		return ResolveResult{}, resolveErr
	}
	report := resolved.Resolution
	report.Records = records
	s.Metrics.ObserveResolution(report)

	outputDir := firstNonEmpty(req.OutputDir, policy.Defaults.Output)
	if outputDir != "" {
		reports := s.Reports(outputDir)
		if err := reports.WriteResolutionReport(report); err != nil {
			return ResolveResult{}, err
		}
		if err := reports.WriteLockfiles(report.Wires); err != nil {
			return ResolveResult{}, err
		}
	}
	if err := s.Metrics.Flush(); err != nil {
		return ResolveResult{}, err
	}
	return ResolveResult{
		Report:    report,
		OutputDir: outputDir,
		Hints:     resolveDefaultsHints(req, policy.Defaults),
	}, resolveErr
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
