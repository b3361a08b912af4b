package types

// Element is one node of an API snapshot as produced by an external analyzer:
// a bundle contains packages, packages contain types, types contain members.
// Identity within the parent is (Type, Name).
type Element struct {
	Type       ElementType       `yaml:"type" json:"type" toml:"type"`
	Name       string            `yaml:"name" json:"name" toml:"name"`
	Version    string            `yaml:"version,omitempty" json:"version,omitempty" toml:"version,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty" toml:"attributes,omitempty"`
	Modifiers  []string          `yaml:"modifiers,omitempty" json:"modifiers,omitempty" toml:"modifiers,omitempty"`

	// Provider marks an interface implemented only by the API provider.
	// Members added to a consumer interface (Provider false) break
	// implementers.
	Provider bool      `yaml:"provider,omitempty" json:"provider,omitempty" toml:"provider,omitempty"`
	Children []Element `yaml:"children,omitempty" json:"children,omitempty" toml:"children,omitempty"`
}

// Identity is the (Type, Name) key of an element among its siblings.
type Identity struct {
	Type ElementType
	Name string
}

func (e Element) Identity() Identity {
	return Identity{Type: e.Type, Name: e.Name}
}

func (e Element) HasModifier(modifier string) bool {
	for _, m := range e.Modifiers {
		if m == modifier {
			return true
		}
	}
	return false
}

const (
	ModifierPublic     = "public"
	ModifierProtected  = "protected"
	ModifierStatic     = "static"
	ModifierFinal      = "final"
	ModifierAbstract   = "abstract"
	ModifierSealed     = "sealed"
	ModifierDefault    = "default"
	ModifierDeprecated = "deprecated"
)

const (
	AttributeReturn    = "return"
	AttributeType      = "type"
	AttributeValue     = "value"
	AttributeSignature = "signature"
	AttributeDefault   = "default"
	AttributeThrows    = "throws"
	AttributeDoc       = "doc"
	AttributeDigest    = "digest"
	AttributeTarget    = "target"
	AttributeRetention = "retention"
)
