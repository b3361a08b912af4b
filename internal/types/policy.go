package types

type Metadata struct {
	Name        string   `yaml:"name" json:"name" toml:"name"`
	Owners      []string `yaml:"owners,omitempty" json:"owners,omitempty" toml:"owners,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
}

// PolicyDefaults provides project-level defaults that the CLI and
// application layer use when a value is not explicitly provided via flags
// or environment variables.
type PolicyDefaults struct {
	Output      string `yaml:"output,omitempty" json:"output,omitempty" toml:"output,omitempty"`
	Index       string `yaml:"index,omitempty" json:"index,omitempty" toml:"index,omitempty"`
	Parallelism int    `yaml:"parallelism,omitempty" json:"parallelism,omitempty" toml:"parallelism,omitempty"`
}

// DiffPolicy scopes the comparison. Ignore patterns are matched against
// element names; "type:pattern" restricts a pattern to one element type.
type DiffPolicy struct {
	Ignore     []string          `yaml:"ignore,omitempty" json:"ignore,omitempty" toml:"ignore,omitempty"`
	Severities SeverityOverrides `yaml:"severities,omitempty" json:"severities,omitempty" toml:"severities,omitempty"`
}

// SeverityOverrides replaces entries of the default classification table.
// Attribute keys are either "attribute" or "type:attribute".
type SeverityOverrides struct {
	Attributes map[string]Delta            `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
	Modifiers  map[string]ModifierOverride `yaml:"modifiers,omitempty" json:"modifiers,omitempty" toml:"modifiers,omitempty"`
}

// ModifierOverride sets the delta for a modifier appearing or disappearing.
// An empty side keeps the default.
type ModifierOverride struct {
	Added   Delta `yaml:"added,omitempty" json:"added,omitempty" toml:"added,omitempty"`
	Removed Delta `yaml:"removed,omitempty" json:"removed,omitempty" toml:"removed,omitempty"`
}

// BaselinePolicy tunes the version-bump check.
type BaselinePolicy struct {
	// FailOnWarning also fails the check on excessive bumps.
	FailOnWarning bool `yaml:"fail_on_warning,omitempty" json:"fail_on_warning,omitempty" toml:"fail_on_warning,omitempty"`
	// Skip lists package names whose rows never count as mismatches.
	Skip []string `yaml:"skip,omitempty" json:"skip,omitempty" toml:"skip,omitempty"`
}

type ResolutionDirective struct {
	Dependency string           `yaml:"dependency" json:"dependency" toml:"dependency"`
	Action     ResolutionAction `yaml:"action" json:"action" toml:"action"`
	Value      string           `yaml:"value,omitempty" json:"value,omitempty" toml:"value,omitempty"`
	Reason     string           `yaml:"reason" json:"reason" toml:"reason"`
	Owner      string           `yaml:"owner" json:"owner" toml:"owner"`
	ExpiresAt  string           `yaml:"expires_at,omitempty" json:"expires_at,omitempty" toml:"expires_at,omitempty"`
}

type ResolvePolicy struct {
	Resolutions []ResolutionDirective `yaml:"resolutions,omitempty" json:"resolutions,omitempty" toml:"resolutions,omitempty"`
	// Blacklist holds requirement filters; matching capabilities are never
	// offered as candidates.
	Blacklist []string `yaml:"blacklist,omitempty" json:"blacklist,omitempty" toml:"blacklist,omitempty"`
	// Effective lists the non-default effective directive values whose
	// requirements take part in resolution.
	Effective         []string `yaml:"effective,omitempty" json:"effective,omitempty" toml:"effective,omitempty"`
	FirstMatch        bool     `yaml:"first_match,omitempty" json:"first_match,omitempty" toml:"first_match,omitempty"`
	FailOnUnsatisfied *bool    `yaml:"fail_on_unsatisfied,omitempty" json:"fail_on_unsatisfied,omitempty" toml:"fail_on_unsatisfied,omitempty"`
}

// PolicyAPIVersion is the only policy document version understood.
const PolicyAPIVersion = "apibaseline/v1"

// Policy is the apibaseline policy document.
type Policy struct {
	APIVersion string         `yaml:"api_version" json:"api_version" toml:"api_version"`
	Metadata   Metadata       `yaml:"metadata" json:"metadata" toml:"metadata"`
	Defaults   PolicyDefaults `yaml:"defaults,omitempty" json:"defaults,omitempty" toml:"defaults,omitempty"`
	Diff       DiffPolicy     `yaml:"diff,omitempty" json:"diff,omitempty" toml:"diff,omitempty"`
	Baseline   BaselinePolicy `yaml:"baseline,omitempty" json:"baseline,omitempty" toml:"baseline,omitempty"`
	Resolve    ResolvePolicy  `yaml:"resolve,omitempty" json:"resolve,omitempty" toml:"resolve,omitempty"`
}
