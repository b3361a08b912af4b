package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"apibaseline/internal/ports"
	"apibaseline/internal/shared"
	"apibaseline/internal/types"
)

// ResolverCore is a minimal breadth-first resolve loop: candidates come from
// the capability index, the filter chain vetoes, and the first remaining
// candidate is selected. It never backtracks.
type ResolverCore struct {
	Index ports.CapabilityIndexPort
	Chain FilterChain
}

type ResolveOptions struct {
	// Effective lists extra effective directive values to resolve besides
	// "resolve".
	Effective         []string
	FailOnUnsatisfied bool
	Parallelism       int
}

type ResolveResult struct {
	Resolution types.ResolutionReport
}

func NewResolverCore(index ports.CapabilityIndexPort, chain FilterChain) ResolverCore {
	return ResolverCore{
		Index: index,
		Chain: chain,
	}
}

// Resolve wires the given root resources and root requirements, then the
// requirements of every selected resource, level by level.
func (r ResolverCore) Resolve(ctx context.Context, resources []string, requirements []types.Requirement, opts ResolveOptions) (ResolveResult, error) {
	if r.Index == nil {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a capability index port")
	}

	visited := map[string]struct{}{}
	report := types.ResolutionReport{}
	vetoes := map[string]int{}

	level := append([]types.Requirement(nil), requirements...)
	for _, id := range resources {
		reqs, err := r.visit(ctx, id, visited, &report)
		if err != nil {
			return ResolveResult{}, err
		}
		level = append(level, reqs...)
	}

	for len(level) > 0 {
		inputs, err := r.prepareLevel(ctx, level, opts)
		if err != nil {
			return ResolveResult{}, err
		}
		results, err := r.Chain.ApplyAll(ctx, inputs, opts.Parallelism)
		if err != nil {
			return ResolveResult{}, err
		}
		var next []types.Requirement
		for _, result := range results {
			for _, veto := range result.Vetoes {
				vetoes[veto.Filter] += veto.Removed
			}
			if result.Unsatisfied() {
				report.Unsatisfied = append(report.Unsatisfied, types.UnsatisfiedRecord{
					Requirement: result.Requirement,
					Optional:    result.Requirement.Optional(),
					Candidates:  result.Offered,
				})
				continue
			}
			selected := result.Remaining[0]
			report.Wires = append(report.Wires, types.Wire{Requirement: result.Requirement, Capability: selected})
			if selected.Resource == "" {
				continue
			}
			reqs, err := r.visit(ctx, selected.Resource, visited, &report)
			if err != nil {
				return ResolveResult{}, err
			}
			next = append(next, reqs...)
		}
		level = next
	}

	for _, name := range r.Chain.Names() {
		report.Vetoes = append(report.Vetoes, types.FilterVeto{Filter: name, Removed: vetoes[name]})
	}

	log.Ctx(ctx).Debug().
		Int("resources", len(report.Resources)).
		Int("wires", len(report.Wires)).
		Int("unsatisfied", len(report.Unsatisfied)).
		Msg("resolver completed")

	result := ResolveResult{Resolution: report}
	if opts.FailOnUnsatisfied {
		if err := unsatisfiedError(report.Unsatisfied); err != nil {
			return result, err
		}
	}
	return result, nil
}

// visit records a resource once and returns its requirements.
func (r ResolverCore) visit(ctx context.Context, id string, visited map[string]struct{}, report *types.ResolutionReport) ([]types.Requirement, error) {
	if _, ok := visited[id]; ok {
		return nil, nil
	}
	visited[id] = struct{}{}
	resource, ok, err := r.Index.Resource(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("resource not found in capability index: %s", id))
	}
	report.Resources = append(report.Resources, id)
	reqs := make([]types.Requirement, 0, len(resource.Requirements))
	for _, req := range resource.Requirements {
		if req.Resource == "" {
			req.Resource = id
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// prepareLevel finds the matching, ordered providers of every requirement
// that takes part in this resolve.
func (r ResolverCore) prepareLevel(ctx context.Context, level []types.Requirement, opts ResolveOptions) ([]FilterInput, error) {
	inputs := make([]FilterInput, 0, len(level))
	for _, req := range level {
		if effective := req.Effective(); effective != types.EffectiveResolve && !slices.Contains(opts.Effective, effective) {
			log.Ctx(ctx).Debug().
				Str("namespace", req.Namespace).
				Str("effective", effective).
				Msg("requirement skipped")
			continue
		}
		matcher, err := NewRequirementMatcher(req)
		if err != nil {
			return nil, err
		}
		providers, err := r.Index.FindProviders(ctx, req.Namespace)
		if err != nil {
			return nil, err
		}
		var matching []types.Capability
		for _, capability := range providers {
			if matcher.Matches(capability) {
				matching = append(matching, capability)
			}
		}
		inputs = append(inputs, FilterInput{Requirement: req, Candidates: SortCapabilities(matching)})
	}
	return inputs, nil
}

func unsatisfiedError(records []types.UnsatisfiedRecord) error {
	var details []string
	for _, record := range records {
		if record.Optional {
			continue
		}
		req := record.Requirement
		details = append(details, fmt.Sprintf("%s %s from %s", req.Namespace, req.Filter, displayResource(req.Resource)))
	}
	if len(details) == 0 {
		return nil
	}
	return shared.UnsatisfiedRequirement("%s", strings.Join(details, "; "))
}
