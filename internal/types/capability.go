package types

// Capability is a contract offered by a resource. Attribute keys may carry a
// type suffix ("version:Version") that selects how filters compare values.
type Capability struct {
	Resource   string            `yaml:"resource,omitempty" json:"resource,omitempty" toml:"resource,omitempty"`
	Namespace  string            `yaml:"namespace" json:"namespace" toml:"namespace"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
	Directives map[string]string `yaml:"directives,omitempty" json:"directives,omitempty" toml:"directives,omitempty"`
}

// Requirement is a demand matched against capabilities of the same
// namespace through an LDAP-style filter over their attributes.
type Requirement struct {
	Resource   string            `yaml:"resource,omitempty" json:"resource,omitempty" toml:"resource,omitempty"`
	Namespace  string            `yaml:"namespace" json:"namespace" toml:"namespace"`
	Filter     string            `yaml:"filter,omitempty" json:"filter,omitempty" toml:"filter,omitempty"`
	Directives map[string]string `yaml:"directives,omitempty" json:"directives,omitempty" toml:"directives,omitempty"`
}

// Optional reports whether the requirement carries resolution:=optional.
func (r Requirement) Optional() bool {
	return r.Directives[DirectiveResolution] == ResolutionOptional
}

// Effective returns the effective directive, defaulting to "resolve".
func (r Requirement) Effective() string {
	if value := r.Directives[DirectiveEffective]; value != "" {
		return value
	}
	return EffectiveResolve
}

func (c Capability) Effective() string {
	if value := c.Directives[DirectiveEffective]; value != "" {
		return value
	}
	return EffectiveResolve
}

// Resource is a resolvable unit: what it offers and what it needs.
type Resource struct {
	ID           string        `yaml:"id" json:"id" toml:"id"`
	Capabilities []Capability  `yaml:"capabilities,omitempty" json:"capabilities,omitempty" toml:"capabilities,omitempty"`
	Requirements []Requirement `yaml:"requirements,omitempty" json:"requirements,omitempty" toml:"requirements,omitempty"`
}

// CapabilityIndexFile is the on-disk capability index. Apt and Pip carry
// foreign repository indexes (package name to available versions) that are
// exposed as capabilities in the "apt" and "pip" namespaces.
type CapabilityIndexFile struct {
	Resources []Resource          `yaml:"resources" json:"resources" toml:"resources"`
	Apt       map[string][]string `yaml:"apt,omitempty" json:"apt,omitempty" toml:"apt,omitempty"`
	Pip       map[string][]string `yaml:"pip,omitempty" json:"pip,omitempty" toml:"pip,omitempty"`
}

// RequirementsFile lists the root requirements a resolve starts from.
type RequirementsFile struct {
	Resources    []string      `yaml:"resources,omitempty" json:"resources,omitempty" toml:"resources,omitempty"`
	Requirements []Requirement `yaml:"requirements,omitempty" json:"requirements,omitempty" toml:"requirements,omitempty"`
}

const (
	DirectiveResolution = "resolution"
	DirectiveEffective  = "effective"
	DirectiveMandatory  = "mandatory"
	DirectiveUses       = "uses"

	ResolutionMandatory = "mandatory"
	ResolutionOptional  = "optional"

	EffectiveResolve = "resolve"
	EffectiveActive  = "active"
)

const (
	NamespaceIdentity = "osgi.identity"
	NamespacePackage  = "osgi.wiring.package"
	NamespaceApt      = "apt"
	NamespacePip      = "pip"

	AttributeName    = "name"
	AttributeVersion = "version"
)
