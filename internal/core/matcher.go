package core

import (
	"cmp"
	"slices"
	"strings"

	"apibaseline/internal/types"
)

// RequirementMatcher is a requirement with its filter parsed once for
// matching against many capabilities.
type RequirementMatcher struct {
	Requirement types.Requirement
	filter      Filter
	referenced  map[string]struct{}
}

func NewRequirementMatcher(req types.Requirement) (RequirementMatcher, error) {
	filter, err := ParseFilter(req.Filter)
	if err != nil {
		return RequirementMatcher{}, err
	}
	referenced := map[string]struct{}{}
	for _, name := range filter.Attributes() {
		referenced[name] = struct{}{}
	}
	return RequirementMatcher{Requirement: req, filter: filter, referenced: referenced}, nil
}

// Matches reports whether capability can satisfy the requirement: same
// namespace, same effective directive, a matching filter, and a filter that
// mentions every attribute the capability lists as mandatory.
func (m RequirementMatcher) Matches(capability types.Capability) bool {
	if capability.Namespace != m.Requirement.Namespace {
		return false
	}
	if capability.Effective() != m.Requirement.Effective() {
		return false
	}
	if mandatory := capability.Directives[types.DirectiveMandatory]; mandatory != "" {
		for _, name := range splitList(mandatory) {
			if name == "" {
				continue
			}
			if _, ok := m.referenced[strings.ToLower(name)]; !ok {
				return false
			}
		}
	}
	return m.filter.Matches(capability.Attributes)
}

// Matches is the one-shot form of RequirementMatcher.Matches.
func Matches(req types.Requirement, capability types.Capability) (bool, error) {
	m, err := NewRequirementMatcher(req)
	if err != nil {
		return false, err
	}
	return m.Matches(capability), nil
}

// SortCapabilities orders candidates for selection: higher "version"
// attribute first, then resource identity, then original position.
// Capabilities without a readable version sort after versioned ones.
func SortCapabilities(caps []types.Capability) []types.Capability {
	type ranked struct {
		capability types.Capability
		version    typedValue
		hasVersion bool
		index      int
	}
	cache := newValueCache()
	items := make([]ranked, len(caps))
	for i, c := range caps {
		attrs := typedAttributes(c.Attributes)
		v, ok := attrs[types.AttributeVersion]
		items[i] = ranked{capability: c, version: v, hasVersion: ok, index: i}
	}
	slices.SortStableFunc(items, func(a, b ranked) int {
		if a.hasVersion != b.hasVersion {
			if a.hasVersion {
				return -1
			}
			return 1
		}
		if a.hasVersion && a.version.typ == b.version.typ {
			if order, ok := cache.compare(a.version.typ, a.version.raw, b.version.raw); ok && order != 0 {
				return -order
			}
		}
		if order := cmp.Compare(a.capability.Resource, b.capability.Resource); order != 0 {
			return order
		}
		return cmp.Compare(a.index, b.index)
	})
	out := make([]types.Capability, len(items))
	for i, item := range items {
		out[i] = item.capability
	}
	return out
}

// CapabilityName returns the name a capability is known by: the attribute
// named after its namespace ("osgi.wiring.package"), or else "name".
func CapabilityName(capability types.Capability) string {
	attrs := typedAttributes(capability.Attributes)
	if value, ok := attrs[strings.ToLower(capability.Namespace)]; ok {
		return value.raw
	}
	return attrs[types.AttributeName].raw
}

// VersionEquals compares the capability's version attribute with value
// using the attribute's declared type.
func VersionEquals(capability types.Capability, value string) bool {
	v, ok := typedAttributes(capability.Attributes)[types.AttributeVersion]
	if !ok {
		return false
	}
	order, ok := newValueCache().compare(v.typ, v.raw, value)
	return ok && order == 0
}
