package adapters

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
	"github.com/rs/zerolog/log"

	"apibaseline/internal/ports"
	"apibaseline/internal/shared"
	"apibaseline/internal/types"
)

// CapabilityIndexFileAdapter serves one or more layered capability index
// files. A resource in a later layer replaces the resource with the same id
// from earlier layers. Entries of the apt and pip sections become one
// resource per package version, offering a single capability in the "apt"
// or "pip" namespace.
type CapabilityIndexFileAdapter struct {
	Paths []string

	mu          sync.Mutex
	loaded      bool
	resources   map[string]types.Resource
	byNamespace map[string][]types.Capability
}

func NewCapabilityIndexFileAdapter(paths ...string) *CapabilityIndexFileAdapter {
	return &CapabilityIndexFileAdapter{Paths: paths}
}

func (a *CapabilityIndexFileAdapter) FindProviders(ctx context.Context, namespace string) ([]types.Capability, error) {
	if err := a.load(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]types.Capability(nil), a.byNamespace[namespace]...), nil
}

func (a *CapabilityIndexFileAdapter) Resource(ctx context.Context, id string) (types.Resource, bool, error) {
	if err := a.load(); err != nil {
		return types.Resource{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return types.Resource{}, false, err
	}
	resource, ok := a.resources[id]
	return resource, ok, nil
}

func (a *CapabilityIndexFileAdapter) load() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loaded {
		return nil
	}
	if len(a.Paths) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("capability index path is empty")
	}
	var order []string
	merged := map[string]types.Resource{}
	for _, path := range a.Paths {
		layer, err := loadIndexLayer(path)
		if err != nil {
			return err
		}
		for _, resource := range layer {
			if _, exists := merged[resource.ID]; exists {
				log.Debug().Str("resource", resource.ID).Str("layer", path).Msg("resource overridden by index layer")
			} else {
				order = append(order, resource.ID)
			}
			merged[resource.ID] = resource
		}
	}

	a.resources = merged
	a.byNamespace = map[string][]types.Capability{}
	for _, id := range order {
		for _, capability := range merged[id].Capabilities {
			a.byNamespace[capability.Namespace] = append(a.byNamespace[capability.Namespace], capability)
		}
	}
	a.loaded = true
	return nil
}

// loadIndexLayer reads one index file and validates its resources.
func loadIndexLayer(path string) ([]types.Resource, error) {
	var idx types.CapabilityIndexFile
	if err := readDocument(path, "capability index", &idx); err != nil {
		return nil, err
	}
	resources := append([]types.Resource(nil), idx.Resources...)
	resources = append(resources, aptResources(idx.Apt)...)
	resources = append(resources, pipResources(idx.Pip)...)

	seen := make(map[string]struct{}, len(resources))
	for r := range resources {
		resource := &resources[r]
		if strings.TrimSpace(resource.ID) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("capability index resource without id in %s", path))
		}
		if _, exists := seen[resource.ID]; exists {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("duplicate resource in capability index: %s", resource.ID))
		}
		seen[resource.ID] = struct{}{}
		for i := range resource.Capabilities {
			if resource.Capabilities[i].Namespace == "" {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("capability without namespace in resource %s", resource.ID))
			}
			resource.Capabilities[i].Resource = resource.ID
		}
		for i := range resource.Requirements {
			if resource.Requirements[i].Resource == "" {
				resource.Requirements[i].Resource = resource.ID
			}
		}
	}
	return resources, nil
}

func aptResources(index map[string][]string) []types.Resource {
	var out []types.Resource
	for _, name := range sortedKeys(index) {
		for _, v := range sortDebVersions(uniqueStrings(index[name])) {
			out = append(out, types.Resource{
				ID: fmt.Sprintf("apt:%s=%s", name, v),
				Capabilities: []types.Capability{{
					Namespace:  types.NamespaceApt,
					Attributes: map[string]string{types.AttributeName: name, "version:DebVersion": v},
				}},
			})
		}
	}
	return out
}

func pipResources(index map[string][]string) []types.Resource {
	normalized := map[string][]string{}
	for name, versions := range index {
		key := shared.NormalizePipName(name)
		normalized[key] = append(normalized[key], versions...)
	}
	var out []types.Resource
	for _, name := range sortedKeys(normalized) {
		for _, v := range sortPep440Versions(uniqueStrings(normalized[name])) {
			out = append(out, types.Resource{
				ID: fmt.Sprintf("pip:%s==%s", name, v),
				Capabilities: []types.Capability{{
					Namespace:  types.NamespacePip,
					Attributes: map[string]string{types.AttributeName: name, "version:Pep440": v},
				}},
			})
		}
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortDebVersions(versions []string) []string {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, err := debversion.NewVersion(versions[i])
		if err != nil {
			return versions[i] < versions[j]
		}
		vj, err := debversion.NewVersion(versions[j])
		if err != nil {
			return versions[i] < versions[j]
		}
		return vi.Compare(vj) < 0
	})
	return versions
}

func sortPep440Versions(versions []string) []string {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, err := pep440.Parse(versions[i])
		if err != nil {
			return versions[i] < versions[j]
		}
		vj, err := pep440.Parse(versions[j])
		if err != nil {
			return versions[i] < versions[j]
		}
		return vi.Compare(vj) < 0
	})
	return versions
}

func uniqueStrings(values []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

var _ ports.CapabilityIndexPort = (*CapabilityIndexFileAdapter)(nil)
