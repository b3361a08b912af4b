package policies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"apibaseline/internal/core"
	"apibaseline/internal/shared"
	"apibaseline/internal/types"
)

const (
	FilterBlacklist  = "blacklist"
	FilterFirstMatch = "first-match"
)

// ResolutionFilters builds the candidate filter chain a resolve policy
// describes: the blacklist first, then one filter per active resolution
// directive in document order, then first-match. Directives whose
// expires_at lies before now are skipped and not recorded.
func ResolutionFilters(policy types.ResolvePolicy, now time.Time) (core.FilterChain, []types.ResolutionRecord, error) {
	chain := core.NewFilterChain()
	var records []types.ResolutionRecord

	if len(policy.Blacklist) > 0 {
		blacklist, err := Blacklist(policy.Blacklist)
		if err != nil {
			return core.FilterChain{}, nil, err
		}
		chain = chain.With(blacklist)
	}

	for _, directive := range policy.Resolutions {
		expired, err := directiveExpired(directive, now)
		if err != nil {
			return core.FilterChain{}, nil, err
		}
		if expired {
			continue
		}
		filter, record, err := ApplyResolution(directive)
		if err != nil {
			return core.FilterChain{}, nil, err
		}
		chain = chain.With(filter)
		records = append(records, record)
	}

	if policy.FirstMatch {
		chain = chain.With(FirstMatch())
	}
	return chain, records, nil
}

// ApplyResolution turns one directive into a candidate filter. The
// directive's dependency pattern is matched against the capability name
// and against the providing resource.
func ApplyResolution(directive types.ResolutionDirective) (core.CandidateFilter, types.ResolutionRecord, error) {
	record := types.ResolutionRecord(directive)
	pattern := strings.TrimSpace(directive.Dependency)
	if pattern == "" {
		return core.CandidateFilter{}, record, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolution directive requires dependency")
	}
	name := fmt.Sprintf("%s:%s", strings.ToLower(string(directive.Action)), pattern)

	switch types.ResolutionAction(strings.ToLower(string(directive.Action))) {
	case types.ResolutionForce:
		if directive.Value == "" {
			return core.CandidateFilter{}, record, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("force directive requires value")
		}
		return core.CandidateFilter{
			Name: name,
			Apply: func(_ context.Context, _ types.Requirement, candidates *core.Candidates) error {
				candidates.RemoveIf(func(c types.Capability) bool {
					return selects(pattern, c) && !core.VersionEquals(c, directive.Value)
				})
				return nil
			},
		}, record, nil
	case types.ResolutionRelax:
		return core.CandidateFilter{
			Name:  name,
			Apply: func(context.Context, types.Requirement, *core.Candidates) error { return nil },
		}, record, nil
	case types.ResolutionReplace:
		if directive.Value == "" {
			return core.CandidateFilter{}, record, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("replace directive requires value")
		}
		return core.CandidateFilter{
			Name: name,
			Apply: func(_ context.Context, _ types.Requirement, candidates *core.Candidates) error {
				candidates.RemoveIf(func(c types.Capability) bool {
					return selects(pattern, c) && c.Resource != directive.Value
				})
				return nil
			},
		}, record, nil
	case types.ResolutionBlock:
		return core.CandidateFilter{
			Name: name,
			Apply: func(_ context.Context, _ types.Requirement, candidates *core.Candidates) error {
				candidates.RemoveIf(func(c types.Capability) bool { return selects(pattern, c) })
				return nil
			},
		}, record, nil
	default:
		return core.CandidateFilter{}, record, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown resolution action: %s", directive.Action))
	}
}

// FirstMatch keeps only the best ranked candidate.
func FirstMatch() core.CandidateFilter {
	return core.CandidateFilter{
		Name: FilterFirstMatch,
		Apply: func(_ context.Context, _ types.Requirement, candidates *core.Candidates) error {
			first := true
			candidates.RetainIf(func(types.Capability) bool {
				keep := first
				first = false
				return keep
			})
			return nil
		},
	}
}

// Blacklist drops every candidate whose resource identity matches one of
// the given requirement filters.
func Blacklist(filters []string) (core.CandidateFilter, error) {
	parsed := make([]core.Filter, 0, len(filters))
	for _, raw := range filters {
		filter, err := core.ParseFilter(raw)
		if err != nil {
			return core.CandidateFilter{}, err
		}
		parsed = append(parsed, filter)
	}
	return core.CandidateFilter{
		Name: FilterBlacklist,
		Apply: func(_ context.Context, _ types.Requirement, candidates *core.Candidates) error {
			candidates.RemoveIf(func(c types.Capability) bool {
				attrs := identityAttributes(c)
				for _, filter := range parsed {
					if filter.Matches(attrs) {
						return true
					}
				}
				return false
			})
			return nil
		},
	}, nil
}

// identityAttributes describes the providing side of a capability for
// blacklist filters: its own attributes plus the resource id.
func identityAttributes(c types.Capability) map[string]string {
	attrs := make(map[string]string, len(c.Attributes)+2)
	for key, value := range c.Attributes {
		attrs[key] = value
	}
	attrs["resource"] = c.Resource
	if _, ok := attrs[types.AttributeName]; !ok {
		attrs[types.AttributeName] = core.CapabilityName(c)
	}
	return attrs
}

func selects(pattern string, c types.Capability) bool {
	if shared.MatchPattern(pattern, c.Resource) {
		return true
	}
	name := core.CapabilityName(c)
	if c.Namespace == types.NamespacePip {
		return shared.MatchPattern(shared.NormalizePipName(pattern), shared.NormalizePipName(name))
	}
	return shared.MatchPattern(pattern, name)
}

func directiveExpired(directive types.ResolutionDirective, now time.Time) (bool, error) {
	raw := strings.TrimSpace(directive.ExpiresAt)
	if raw == "" {
		return false, nil
	}
	expires, ok := parseTimeFlexible(raw)
	if !ok {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid expires_at for %s: %s", directive.Dependency, raw))
	}
	return expires.Before(now), nil
}

func parseTimeFlexible(value string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		time.DateOnly,
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
