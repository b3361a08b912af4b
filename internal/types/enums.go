package types

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Delta classifies the change of one API element between two snapshots.
type Delta string

const (
	DeltaUnchanged Delta = "UNCHANGED"
	DeltaChanged   Delta = "CHANGED"
	DeltaMicro     Delta = "MICRO"
	DeltaMinor     Delta = "MINOR"
	DeltaMajor     Delta = "MAJOR"
	DeltaAdded     Delta = "ADDED"
	DeltaRemoved   Delta = "REMOVED"
)

// AllDeltas lists every Delta, ordered severities first.
var AllDeltas = []Delta{
	DeltaUnchanged,
	DeltaChanged,
	DeltaMicro,
	DeltaMinor,
	DeltaMajor,
	DeltaAdded,
	DeltaRemoved,
}

// Rank positions a Delta on the severity order
// UNCHANGED < CHANGED < MICRO < MINOR < MAJOR. ADDED ranks as MINOR and
// REMOVED as MAJOR, the severities they aggregate into.
func (d Delta) Rank() int {
	switch d {
	case DeltaUnchanged:
		return 0
	case DeltaChanged:
		return 1
	case DeltaMicro:
		return 2
	case DeltaMinor, DeltaAdded:
		return 3
	case DeltaMajor, DeltaRemoved:
		return 4
	default:
		return -1
	}
}

// Absolute reports whether d is one of the ADDED/REMOVED markers.
func (d Delta) Absolute() bool {
	return d == DeltaAdded || d == DeltaRemoved
}

func (d Delta) Valid() bool {
	return d.Rank() >= 0
}

// ParseDelta reads a Delta name case-insensitively.
func ParseDelta(raw string) (Delta, error) {
	d := Delta(strings.ToUpper(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown delta %q", raw))
	}
	return d, nil
}

// ElementType is the kind of API element a snapshot node or Diff describes.
type ElementType string

const (
	ElementBundle       ElementType = "bundle"
	ElementAPI          ElementType = "api"
	ElementManifest     ElementType = "manifest"
	ElementHeader       ElementType = "header"
	ElementClause       ElementType = "clause"
	ElementParameter    ElementType = "parameter"
	ElementResources    ElementType = "resources"
	ElementResource     ElementType = "resource"
	ElementPackage      ElementType = "package"
	ElementClass        ElementType = "class"
	ElementInterface    ElementType = "interface"
	ElementAnnotation   ElementType = "annotation"
	ElementEnum         ElementType = "enum"
	ElementMethod       ElementType = "method"
	ElementField        ElementType = "field"
	ElementConstant     ElementType = "constant"
	ElementAccess       ElementType = "access"
	ElementExtends      ElementType = "extends"
	ElementImplements   ElementType = "implements"
	ElementReturn       ElementType = "return"
	ElementAnnotated    ElementType = "annotated"
	ElementProperty     ElementType = "property"
	ElementVersion      ElementType = "version"
	ElementClassVersion ElementType = "class_version"
)

var knownElementTypes = map[ElementType]struct{}{
	ElementBundle:       {},
	ElementAPI:          {},
	ElementManifest:     {},
	ElementHeader:       {},
	ElementClause:       {},
	ElementParameter:    {},
	ElementResources:    {},
	ElementResource:     {},
	ElementPackage:      {},
	ElementClass:        {},
	ElementInterface:    {},
	ElementAnnotation:   {},
	ElementEnum:         {},
	ElementMethod:       {},
	ElementField:        {},
	ElementConstant:     {},
	ElementAccess:       {},
	ElementExtends:      {},
	ElementImplements:   {},
	ElementReturn:       {},
	ElementAnnotated:    {},
	ElementProperty:     {},
	ElementVersion:      {},
	ElementClassVersion: {},
}

func (t ElementType) Known() bool {
	_, ok := knownElementTypes[t]
	return ok
}

// IsTypeDeclaration reports whether t is a class-like declaration.
func (t ElementType) IsTypeDeclaration() bool {
	switch t {
	case ElementClass, ElementInterface, ElementAnnotation, ElementEnum:
		return true
	}
	return false
}

type ResolutionAction string

const (
	ResolutionForce   ResolutionAction = "force"
	ResolutionRelax   ResolutionAction = "relax"
	ResolutionReplace ResolutionAction = "replace"
	ResolutionBlock   ResolutionAction = "block"
)

// OutputFormat selects how a command prints its result.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
)
