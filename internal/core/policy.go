package core

import (
	"slices"

	"apibaseline/internal/types"
)

// ModifierSeverity is the delta caused by a modifier appearing on, or
// disappearing from, an element present in both snapshots.
type ModifierSeverity struct {
	Added   types.Delta
	Removed types.Delta
}

// PolicyTable maps attribute and modifier changes of matching elements to a
// Delta. Lookups fall back from the element type to the shared defaults and
// finally to CHANGED.
type PolicyTable struct {
	Attributes     map[string]types.Delta
	TypeAttributes map[types.ElementType]map[string]types.Delta
	Modifiers      map[string]ModifierSeverity
}

// DefaultPolicy returns the severity table used unless a caller supplies
// its own.
func DefaultPolicy() PolicyTable {
	return PolicyTable{
		Attributes: map[string]types.Delta{
			types.AttributeReturn:    types.DeltaMajor,
			types.AttributeType:      types.DeltaMajor,
			types.AttributeSignature: types.DeltaMajor,
			types.AttributeTarget:    types.DeltaMajor,
			types.AttributeRetention: types.DeltaMajor,
			types.AttributeThrows:    types.DeltaMinor,
			types.AttributeValue:     types.DeltaMinor,
			types.AttributeDefault:   types.DeltaMinor,
			types.AttributeDigest:    types.DeltaMicro,
			types.AttributeDoc:       types.DeltaMicro,
		},
		TypeAttributes: map[types.ElementType]map[string]types.Delta{
			// Compile-time constants are inlined by consumers.
			types.ElementConstant: {
				types.AttributeValue: types.DeltaMajor,
			},
			types.ElementProperty: {
				types.AttributeValue: types.DeltaMicro,
			},
			types.ElementClassVersion: {
				types.AttributeValue: types.DeltaMinor,
			},
		},
		Modifiers: map[string]ModifierSeverity{
			types.ModifierPublic:     {Added: types.DeltaMinor, Removed: types.DeltaMajor},
			types.ModifierProtected:  {Added: types.DeltaMajor, Removed: types.DeltaMinor},
			types.ModifierStatic:     {Added: types.DeltaMajor, Removed: types.DeltaMajor},
			types.ModifierAbstract:   {Added: types.DeltaMajor, Removed: types.DeltaMinor},
			types.ModifierFinal:      {Added: types.DeltaMajor, Removed: types.DeltaMinor},
			types.ModifierSealed:     {Added: types.DeltaMajor, Removed: types.DeltaMinor},
			types.ModifierDefault:    {Added: types.DeltaMinor, Removed: types.DeltaMajor},
			types.ModifierDeprecated: {Added: types.DeltaMicro, Removed: types.DeltaMicro},
		},
	}
}

// AttributeChange classifies a changed attribute value on an element of
// the given type.
func (p PolicyTable) AttributeChange(elementType types.ElementType, attribute string) types.Delta {
	if byType, ok := p.TypeAttributes[elementType]; ok {
		if d, ok := byType[attribute]; ok {
			return d
		}
	}
	if d, ok := p.Attributes[attribute]; ok {
		return d
	}
	return types.DeltaChanged
}

// ModifierChange classifies a modifier that was added (or removed).
func (p PolicyTable) ModifierChange(modifier string, added bool) types.Delta {
	severity, ok := p.Modifiers[modifier]
	if !ok {
		return types.DeltaChanged
	}
	if added {
		return severity.Added
	}
	return severity.Removed
}

// Classify folds every attribute and modifier difference between two
// versions of the same element. parent is the newer enclosing element, used
// to ignore "final" on members of a final class.
func (p PolicyTable) Classify(parent *types.Element, older types.Element, newer types.Element) types.Delta {
	result := types.DeltaUnchanged
	for _, key := range unionKeys(older.Attributes, newer.Attributes) {
		oldValue, inOld := older.Attributes[key]
		newValue, inNew := newer.Attributes[key]
		if inOld == inNew && oldValue == newValue {
			continue
		}
		result = Aggregate(result, p.AttributeChange(newer.Type, key))
	}
	finalIrrelevant := parent != nil && parent.Type.IsTypeDeclaration() && parent.HasModifier(types.ModifierFinal)
	for _, modifier := range newer.Modifiers {
		if older.HasModifier(modifier) || (finalIrrelevant && modifier == types.ModifierFinal) {
			continue
		}
		result = Aggregate(result, p.ModifierChange(modifier, true))
	}
	for _, modifier := range older.Modifiers {
		if newer.HasModifier(modifier) || (finalIrrelevant && modifier == types.ModifierFinal) {
			continue
		}
		result = Aggregate(result, p.ModifierChange(modifier, false))
	}
	return result
}

// Addition returns the contribution of a child that only exists in the
// newer snapshot to its parent. It is ADDED unless the addition breaks
// existing implementers or users of the parent, in which case it is MAJOR:
//
//   - a method or field added to a consumer interface, unless the method is
//     default or static;
//   - an abstract method added to a class;
//   - an annotation element without default value.
func (p PolicyTable) Addition(parent types.Element, child types.Element) types.Delta {
	switch parent.Type {
	case types.ElementInterface:
		if parent.Provider {
			break
		}
		if child.Type == types.ElementField {
			return types.DeltaMajor
		}
		if child.Type == types.ElementMethod && !child.HasModifier(types.ModifierDefault) && !child.HasModifier(types.ModifierStatic) {
			return types.DeltaMajor
		}
	case types.ElementClass:
		if child.Type == types.ElementMethod && child.HasModifier(types.ModifierAbstract) {
			return types.DeltaMajor
		}
	case types.ElementAnnotation:
		if child.Type == types.ElementMethod {
			if _, ok := child.Attributes[types.AttributeDefault]; !ok {
				return types.DeltaMajor
			}
		}
	}
	return types.DeltaAdded
}

func unionKeys(a map[string]string, b map[string]string) []string {
	keys := make([]string, 0, len(a)+len(b))
	for key := range a {
		keys = append(keys, key)
	}
	for key := range b {
		if _, ok := a[key]; !ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}
