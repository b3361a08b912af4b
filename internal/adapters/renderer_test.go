package adapters

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"apibaseline/internal/types"
)

func sampleDiff() types.Diff {
	return types.Diff{Type: types.ElementBundle, Name: "com.acme.api", Delta: types.DeltaMajor, OlderVersion: versionPtr("1.0.0"), NewerVersion: versionPtr("1.1.0"), Children: []types.Diff{
		{Type: types.ElementPackage, Name: "com.acme.api", Delta: types.DeltaMajor, Children: []types.Diff{
			{Type: types.ElementMethod, Name: "get()", Delta: types.DeltaRemoved},
			{Type: types.ElementMethod, Name: "put()", Delta: types.DeltaUnchanged},
		}},
	}}
}

func TestTextRendererDiff(t *testing.T) {
	var quiet bytes.Buffer
	require.NoError(t, TextRenderer{}.RenderDiff(&quiet, sampleDiff()))
	assert.Contains(t, quiet.String(), "get()")
	assert.Contains(t, quiet.String(), "1.0.0 -> 1.1.0")
	assert.NotContains(t, quiet.String(), "put()")

	var verbose bytes.Buffer
	require.NoError(t, TextRenderer{Verbose: true}.RenderDiff(&verbose, sampleDiff()))
	assert.Contains(t, verbose.String(), "put()")
	assert.Len(t, strings.Split(strings.TrimSpace(verbose.String()), "\n"), 4)
}

func TestTextRendererBaselineAndResolution(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, TextRenderer{}.RenderBaseline(&out, sampleBaseline()))
	assert.Contains(t, out.String(), "MISMATCH")
	assert.Contains(t, out.String(), "suggested 2.0.0")
	assert.Contains(t, out.String(), "warning: excessive bump")

	out.Reset()
	require.NoError(t, TextRenderer{}.RenderResolution(&out, sampleResolution()))
	assert.Contains(t, out.String(), "Wires (1)")
	assert.Contains(t, out.String(), "libfoo 1.9-1")
	assert.Contains(t, out.String(), "Unsatisfied (1)")
	assert.Contains(t, out.String(), "force:libfoo removed 1")
}

func TestStructuredRenderers(t *testing.T) {
	jsonRenderer, err := NewRenderer(types.OutputFormatJSON, false)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, jsonRenderer.RenderDiff(&out, sampleDiff()))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "1.1.0", decoded["newer_version"])

	yamlRenderer, err := NewRenderer(types.OutputFormatYAML, false)
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, yamlRenderer.RenderBaseline(&out, sampleBaseline()))
	var report types.BaselineReport
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.Bundle.Mismatch)

	_, err = NewRenderer("xml", false)
	require.Error(t, err)
}

func TestMetricsTextfileAdapter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics", "apibaseline.prom")
	metrics := NewMetricsTextfileAdapter(path)

	metrics.ObserveDiff(sampleDiff())
	metrics.ObserveBaseline(sampleBaseline())
	metrics.ObserveResolution(sampleResolution())

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.diffNodes.WithLabelValues(string(types.DeltaMajor))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.mismatches))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.warnings))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.vetoes.WithLabelValues("force:libfoo")))

	require.NoError(t, metrics.Flush())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apibaseline_resolve_wires_total 1")
	assert.Contains(t, string(data), `apibaseline_resolve_unsatisfied_total{optional="true"} 1`)

	require.NoError(t, NewMetricsTextfileAdapter("").Flush())
}
