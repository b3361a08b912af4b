package core

import (
	"context"
	"fmt"
	"maps"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"apibaseline/internal/shared"
	"apibaseline/internal/types"
)

// Candidates is the ordered candidate list handed to filters. Filters can
// only remove entries.
type Candidates struct {
	items []types.Capability
}

func NewCandidates(caps []types.Capability) *Candidates {
	return &Candidates{items: append([]types.Capability(nil), caps...)}
}

func (c *Candidates) Len() int {
	return len(c.items)
}

// At returns a copy of the i-th candidate.
func (c *Candidates) At(i int) types.Capability {
	return cloneCapability(c.items[i])
}

// Items returns copies of the remaining candidates in order.
func (c *Candidates) Items() []types.Capability {
	out := make([]types.Capability, len(c.items))
	for i, item := range c.items {
		out[i] = cloneCapability(item)
	}
	return out
}

// RemoveIf drops every candidate for which remove returns true and reports
// how many were dropped.
func (c *Candidates) RemoveIf(remove func(types.Capability) bool) int {
	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if remove(cloneCapability(item)) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	clear(c.items[len(kept):])
	c.items = kept
	return removed
}

// RetainIf keeps only the candidates for which keep returns true.
func (c *Candidates) RetainIf(keep func(types.Capability) bool) int {
	return c.RemoveIf(func(capability types.Capability) bool {
		return !keep(capability)
	})
}

func cloneCapability(c types.Capability) types.Capability {
	c.Attributes = maps.Clone(c.Attributes)
	c.Directives = maps.Clone(c.Directives)
	return c
}

// CandidateFilter vetoes candidates for one requirement. Apply must not keep
// references to its arguments and must be safe to call concurrently.
type CandidateFilter struct {
	Name  string
	Apply func(ctx context.Context, req types.Requirement, candidates *Candidates) error
}

// FilterChain runs filters in registration order, each on the list already
// reduced by its predecessors.
type FilterChain struct {
	filters []CandidateFilter
}

func NewFilterChain(filters ...CandidateFilter) FilterChain {
	return FilterChain{filters: append([]CandidateFilter(nil), filters...)}
}

// With returns a chain with more filters appended.
func (c FilterChain) With(filters ...CandidateFilter) FilterChain {
	return NewFilterChain(append(append([]CandidateFilter(nil), c.filters...), filters...)...)
}

func (c FilterChain) Names() []string {
	names := make([]string, len(c.filters))
	for i, f := range c.filters {
		names[i] = f.Name
	}
	return names
}

type FilterInput struct {
	Requirement types.Requirement
	Candidates  []types.Capability
}

type FilterResult struct {
	Requirement types.Requirement
	// Offered is the candidate count before filtering.
	Offered   int
	Remaining []types.Capability
	// Vetoes holds one entry per filter, in chain order.
	Vetoes []types.FilterVeto
}

// Unsatisfied reports whether filtering left no candidate.
func (r FilterResult) Unsatisfied() bool {
	return len(r.Remaining) == 0
}

// Err returns an unsatisfied requirement error for a mandatory requirement
// left without candidates, and nil otherwise.
func (r FilterResult) Err() error {
	if !r.Unsatisfied() || r.Requirement.Optional() {
		return nil
	}
	return shared.UnsatisfiedRequirement("%s %s from %s (%d candidates offered)",
		r.Requirement.Namespace, r.Requirement.Filter, displayResource(r.Requirement.Resource), r.Offered)
}

// Apply filters one candidate list. The returned error is a filter failure;
// an emptied list is reported through the result.
func (c FilterChain) Apply(ctx context.Context, req types.Requirement, caps []types.Capability) (FilterResult, error) {
	candidates := NewCandidates(caps)
	result := FilterResult{Requirement: req, Offered: len(caps), Vetoes: make([]types.FilterVeto, 0, len(c.filters))}
	for _, f := range c.filters {
		if err := ctx.Err(); err != nil {
			return FilterResult{}, err
		}
		before := candidates.Len()
		if err := f.Apply(ctx, req, candidates); err != nil {
			return FilterResult{}, err
		}
		removed := before - candidates.Len()
		if removed < 0 {
			return FilterResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("filter %s grew the candidate list from %d to %d", f.Name, before, candidates.Len()))
		}
		result.Vetoes = append(result.Vetoes, types.FilterVeto{Filter: f.Name, Removed: removed})
		if removed > 0 {
			log.Ctx(ctx).Debug().
				Str("filter", f.Name).
				Str("namespace", req.Namespace).
				Str("requirement", req.Filter).
				Int("removed", removed).
				Msg("candidates vetoed")
		}
	}
	result.Remaining = candidates.Items()
	return result, nil
}

// ApplyAll filters independent (requirement, candidates) pairs concurrently
// and returns the results in input order.
func (c FilterChain) ApplyAll(ctx context.Context, inputs []FilterInput, parallelism int) ([]FilterResult, error) {
	results := make([]FilterResult, len(inputs))
	g, gCtx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, input := range inputs {
		g.Go(func() error {
			result, err := c.Apply(gCtx, input.Requirement, input.Candidates)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func displayResource(resource string) string {
	if resource == "" {
		return "<root>"
	}
	return resource
}
