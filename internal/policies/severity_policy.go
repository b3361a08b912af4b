package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"apibaseline/internal/core"
	"apibaseline/internal/types"
)

// SeverityTable returns the default classification table with the policy's
// overrides applied. Overrides may only name UNCHANGED through MAJOR.
func SeverityTable(overrides types.SeverityOverrides) (core.PolicyTable, error) {
	table := core.DefaultPolicy()
	if len(overrides.Attributes) == 0 && len(overrides.Modifiers) == 0 {
		return table, nil
	}

	for key, raw := range overrides.Attributes {
		delta, err := overrideDelta("attribute "+key, raw)
		if err != nil {
			return core.PolicyTable{}, err
		}
		elementType, attribute, scoped := strings.Cut(key, ":")
		if !scoped {
			table.Attributes[strings.TrimSpace(key)] = delta
			continue
		}
		t := types.ElementType(strings.TrimSpace(elementType))
		if !t.Known() || strings.TrimSpace(attribute) == "" {
			return core.PolicyTable{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid severity override key %q", key))
		}
		if table.TypeAttributes[t] == nil {
			table.TypeAttributes[t] = map[string]types.Delta{}
		}
		table.TypeAttributes[t][strings.TrimSpace(attribute)] = delta
	}

	for modifier, override := range overrides.Modifiers {
		severity, ok := table.Modifiers[modifier]
		if !ok {
			severity = core.ModifierSeverity{Added: types.DeltaChanged, Removed: types.DeltaChanged}
		}
		if override.Added != "" {
			delta, err := overrideDelta("modifier "+modifier+" added", override.Added)
			if err != nil {
				return core.PolicyTable{}, err
			}
			severity.Added = delta
		}
		if override.Removed != "" {
			delta, err := overrideDelta("modifier "+modifier+" removed", override.Removed)
			if err != nil {
				return core.PolicyTable{}, err
			}
			severity.Removed = delta
		}
		table.Modifiers[modifier] = severity
	}
	return table, nil
}

func overrideDelta(what string, raw types.Delta) (types.Delta, error) {
	delta, err := types.ParseDelta(string(raw))
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid severity for %s: %q", what, raw)).
			WithCause(err)
	}
	if delta.Absolute() {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("severity for %s must be one of UNCHANGED, CHANGED, MICRO, MINOR or MAJOR, got %s", what, delta))
	}
	return delta, nil
}
