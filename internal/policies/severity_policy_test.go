package policies

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apibaseline/internal/core"
	"apibaseline/internal/types"
)

func TestSeverityTableDefaults(t *testing.T) {
	table, err := SeverityTable(types.SeverityOverrides{})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultPolicy(), table)
}

func TestSeverityTableOverrides(t *testing.T) {
	table, err := SeverityTable(types.SeverityOverrides{
		Attributes: map[string]types.Delta{
			types.AttributeDoc: "unchanged",
			"constant:value":   types.DeltaMinor,
			"method:throws":    types.DeltaMajor,
		},
		Modifiers: map[string]types.ModifierOverride{
			types.ModifierPublic: {Removed: types.DeltaMinor},
			"synchronized":       {Added: types.DeltaMicro},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, types.DeltaUnchanged, table.AttributeChange(types.ElementField, types.AttributeDoc))
	assert.Equal(t, types.DeltaMinor, table.AttributeChange(types.ElementConstant, types.AttributeValue))
	assert.Equal(t, types.DeltaMajor, table.AttributeChange(types.ElementMethod, types.AttributeThrows))
	assert.Equal(t, types.DeltaMinor, table.AttributeChange(types.ElementField, types.AttributeThrows))

	assert.Equal(t, types.DeltaMinor, table.ModifierChange(types.ModifierPublic, true))
	assert.Equal(t, types.DeltaMinor, table.ModifierChange(types.ModifierPublic, false))
	assert.Equal(t, types.DeltaMicro, table.ModifierChange("synchronized", true))
	assert.Equal(t, types.DeltaChanged, table.ModifierChange("synchronized", false))

	assert.Equal(t, types.DeltaMicro, core.DefaultPolicy().AttributeChange(types.ElementField, types.AttributeDoc))
}

func TestSeverityTableRejectsInvalidOverrides(t *testing.T) {
	tests := map[string]types.SeverityOverrides{
		"absolute delta": {Attributes: map[string]types.Delta{types.AttributeReturn: types.DeltaRemoved}},
		"unknown delta":  {Attributes: map[string]types.Delta{types.AttributeReturn: "HUGE"}},
		"unknown type":   {Attributes: map[string]types.Delta{"widget:value": types.DeltaMinor}},
		"empty key":      {Attributes: map[string]types.Delta{"method:": types.DeltaMinor}},
		"modifier":       {Modifiers: map[string]types.ModifierOverride{types.ModifierFinal: {Added: types.DeltaAdded}}},
	}
	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := SeverityTable(overrides)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}
