package types

import "apibaseline/internal/version"

// BaselineInfo is one row of a baseline check: the bundle or one package.
type BaselineInfo struct {
	Name             string           `yaml:"name" json:"name"`
	Type             ElementType      `yaml:"type" json:"type"`
	Delta            Delta            `yaml:"delta" json:"delta"`
	OlderVersion     *version.Version `yaml:"older_version,omitempty" json:"older_version,omitempty"`
	NewerVersion     *version.Version `yaml:"newer_version,omitempty" json:"newer_version,omitempty"`
	SuggestedVersion *version.Version `yaml:"suggested_version,omitempty" json:"suggested_version,omitempty"`
	Mismatch         bool             `yaml:"mismatch" json:"mismatch"`
	Reason           string           `yaml:"reason,omitempty" json:"reason,omitempty"`
	Warning          string           `yaml:"warning,omitempty" json:"warning,omitempty"`
}

type BaselineReport struct {
	Bundle   BaselineInfo   `yaml:"bundle" json:"bundle"`
	Packages []BaselineInfo `yaml:"packages,omitempty" json:"packages,omitempty"`
}

// Mismatches returns every row flagged as an insufficient bump.
func (r BaselineReport) Mismatches() []BaselineInfo {
	var out []BaselineInfo
	if r.Bundle.Mismatch {
		out = append(out, r.Bundle)
	}
	for _, pkg := range r.Packages {
		if pkg.Mismatch {
			out = append(out, pkg)
		}
	}
	return out
}

type Wire struct {
	Requirement Requirement `yaml:"requirement" json:"requirement"`
	Capability  Capability  `yaml:"capability" json:"capability"`
}

type UnsatisfiedRecord struct {
	Requirement Requirement `yaml:"requirement" json:"requirement"`
	Optional    bool        `yaml:"optional" json:"optional"`
	Candidates  int         `yaml:"candidates" json:"candidates"`
}

// FilterVeto counts the candidates one filter removed over a resolve.
type FilterVeto struct {
	Filter  string `yaml:"filter" json:"filter"`
	Removed int    `yaml:"removed" json:"removed"`
}

type ResolutionRecord struct {
	Dependency string           `yaml:"dependency" json:"dependency"`
	Action     ResolutionAction `yaml:"action" json:"action"`
	Value      string           `yaml:"value,omitempty" json:"value,omitempty"`
	Reason     string           `yaml:"reason,omitempty" json:"reason,omitempty"`
	Owner      string           `yaml:"owner,omitempty" json:"owner,omitempty"`
	ExpiresAt  string           `yaml:"expires_at,omitempty" json:"expires_at,omitempty"`
}

type ResolutionReport struct {
	Resources   []string            `yaml:"resources,omitempty" json:"resources,omitempty"`
	Wires       []Wire              `yaml:"wires,omitempty" json:"wires,omitempty"`
	Unsatisfied []UnsatisfiedRecord `yaml:"unsatisfied,omitempty" json:"unsatisfied,omitempty"`
	Vetoes      []FilterVeto        `yaml:"vetoes,omitempty" json:"vetoes,omitempty"`
	Records     []ResolutionRecord  `yaml:"records,omitempty" json:"records,omitempty"`
}
