package core

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apibaseline/internal/shared"
	"apibaseline/internal/types"
)

type testCapabilityIndex struct {
	resources []types.Resource
}

func (t testCapabilityIndex) FindProviders(_ context.Context, namespace string) ([]types.Capability, error) {
	var out []types.Capability
	for _, resource := range t.resources {
		for _, capability := range resource.Capabilities {
			if capability.Namespace != namespace {
				continue
			}
			capability.Resource = resource.ID
			out = append(out, capability)
		}
	}
	return out, nil
}

func (t testCapabilityIndex) Resource(_ context.Context, id string) (types.Resource, bool, error) {
	for _, resource := range t.resources {
		if resource.ID == id {
			return resource, true, nil
		}
	}
	return types.Resource{}, false, nil
}

func identity(name string, v string) types.Capability {
	return types.Capability{Namespace: types.NamespaceIdentity, Attributes: map[string]string{"osgi.identity": name, "version:Version": v}}
}

func exportPackage(name string, v string) types.Capability {
	return types.Capability{Namespace: types.NamespacePackage, Attributes: map[string]string{"osgi.wiring.package": name, "version:Version": v}}
}

func importPackage(name string, rng string) types.Requirement {
	return types.Requirement{Namespace: types.NamespacePackage, Filter: "(&(osgi.wiring.package=" + name + ")(version>=" + rng + "))"}
}

func sampleIndex() testCapabilityIndex {
	return testCapabilityIndex{resources: []types.Resource{
		{
			ID:           "app",
			Capabilities: []types.Capability{identity("app", "1.0.0")},
			Requirements: []types.Requirement{importPackage("com.acme.api", "1.0")},
		},
		{
			ID:           "api-1.0",
			Capabilities: []types.Capability{identity("api", "1.0.0"), exportPackage("com.acme.api", "1.0.0")},
		},
		{
			ID:           "api-1.2",
			Capabilities: []types.Capability{identity("api", "1.2.0"), exportPackage("com.acme.api", "1.2.0")},
			Requirements: []types.Requirement{
				importPackage("org.slf4j", "1.7"),
				{Namespace: "osgi.service", Filter: "(objectClass=Log)", Directives: map[string]string{types.DirectiveEffective: types.EffectiveActive}},
			},
		},
		{
			ID:           "slf4j",
			Capabilities: []types.Capability{exportPackage("org.slf4j", "1.7.36")},
			Requirements: []types.Requirement{importPackage("com.acme.api", "1.0")},
		},
	}}
}

func TestResolverWiresHighestVersionFirst(t *testing.T) {
	resolver := NewResolverCore(sampleIndex(), NewFilterChain())

	result, err := resolver.Resolve(t.Context(), []string{"app"}, nil, ResolveOptions{FailOnUnsatisfied: true})
	require.NoError(t, err)

	report := result.Resolution
	if diff := cmp.Diff([]string{"app", "api-1.2", "slf4j"}, report.Resources); diff != "" {
		t.Fatalf("unexpected resources (-want +got):\n%s", diff)
	}
	require.Len(t, report.Wires, 3)
	assert.Equal(t, "api-1.2", report.Wires[0].Capability.Resource)
	assert.Equal(t, "app", report.Wires[0].Requirement.Resource)
	assert.Equal(t, "slf4j", report.Wires[1].Capability.Resource)
	assert.Equal(t, "api-1.2", report.Wires[2].Capability.Resource)
	assert.Empty(t, report.Unsatisfied)
}

func TestResolverAppliesFilterChain(t *testing.T) {
	blockNewest := CandidateFilter{
		Name: "block-api-1.2",
		Apply: func(_ context.Context, _ types.Requirement, candidates *Candidates) error {
			candidates.RemoveIf(func(c types.Capability) bool { return c.Resource == "api-1.2" })
			return nil
		},
	}
	resolver := NewResolverCore(sampleIndex(), NewFilterChain(blockNewest))

	result, err := resolver.Resolve(t.Context(), []string{"app"}, nil, ResolveOptions{})
	require.NoError(t, err)

	report := result.Resolution
	require.Len(t, report.Wires, 1)
	assert.Equal(t, "api-1.0", report.Wires[0].Capability.Resource)
	if diff := cmp.Diff([]types.FilterVeto{{Filter: "block-api-1.2", Removed: 1}}, report.Vetoes); diff != "" {
		t.Fatalf("unexpected vetoes (-want +got):\n%s", diff)
	}
}

func TestResolverReportsUnsatisfied(t *testing.T) {
	resolver := NewResolverCore(sampleIndex(), NewFilterChain())
	missing := types.Requirement{Namespace: types.NamespacePackage, Filter: "(osgi.wiring.package=com.missing)"}
	optional := types.Requirement{
		Namespace:  types.NamespacePackage,
		Filter:     "(osgi.wiring.package=com.optional)",
		Directives: map[string]string{types.DirectiveResolution: types.ResolutionOptional},
	}

	result, err := resolver.Resolve(t.Context(), nil, []types.Requirement{missing, optional}, ResolveOptions{})
	require.NoError(t, err)
	require.Len(t, result.Resolution.Unsatisfied, 2)
	assert.False(t, result.Resolution.Unsatisfied[0].Optional)
	assert.True(t, result.Resolution.Unsatisfied[1].Optional)

	result, err = resolver.Resolve(t.Context(), nil, []types.Requirement{missing, optional}, ResolveOptions{FailOnUnsatisfied: true})
	require.Error(t, err)
	assert.True(t, shared.IsUnsatisfiedRequirement(err))
	assert.Contains(t, err.Error(), "com.missing")
	assert.NotContains(t, err.Error(), "com.optional")
	assert.Len(t, result.Resolution.Unsatisfied, 2)
}

func TestResolverEffectiveRequirements(t *testing.T) {
	index := sampleIndex()
	index.resources = append(index.resources, types.Resource{
		ID: "logger",
		Capabilities: []types.Capability{{
			Namespace:  "osgi.service",
			Attributes: map[string]string{"objectClass": "Log"},
			Directives: map[string]string{types.DirectiveEffective: types.EffectiveActive},
		}},
	})
	resolver := NewResolverCore(index, NewFilterChain())

	skipped, err := resolver.Resolve(t.Context(), []string{"app"}, nil, ResolveOptions{})
	require.NoError(t, err)
	assert.NotContains(t, skipped.Resolution.Resources, "logger")

	active, err := resolver.Resolve(t.Context(), []string{"app"}, nil, ResolveOptions{Effective: []string{types.EffectiveActive}})
	require.NoError(t, err)
	assert.Contains(t, active.Resolution.Resources, "logger")
}

func TestResolverUnknownResource(t *testing.T) {
	resolver := NewResolverCore(sampleIndex(), NewFilterChain())
	_, err := resolver.Resolve(t.Context(), []string{"nope"}, nil, ResolveOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource not found")
}

func TestResolverRequiresIndex(t *testing.T) {
	_, err := ResolverCore{}.Resolve(t.Context(), nil, nil, ResolveOptions{})
	require.Error(t, err)
}
