package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apibaseline/internal/types"
)

func writeFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSnapshotFileAdapterFormats(t *testing.T) {
	dir := t.TempDir()
	want := types.Element{
		Type:    types.ElementBundle,
		Name:    "com.acme.api",
		Version: "1.2.0",
		Children: []types.Element{{
			Type: types.ElementPackage,
			Name: "com.acme.api",
			Children: []types.Element{{
				Type:      types.ElementClass,
				Name:      "com.acme.api.Api",
				Modifiers: []string{"public"},
				Children: []types.Element{{
					Type:       types.ElementMethod,
					Name:       "get()",
					Attributes: map[string]string{"return": "java.lang.String"},
				}},
			}},
		}},
	}

	files := map[string]string{
		"api.yaml": `
type: bundle
name: com.acme.api
version: 1.2.0
children:
  - type: package
    name: com.acme.api
    children:
      - type: class
        name: com.acme.api.Api
        modifiers: [public]
        children:
          - type: method
            name: get()
            attributes:
              return: java.lang.String
`,
		"api.json": `{"type":"bundle","name":"com.acme.api","version":"1.2.0","children":[
  {"type":"package","name":"com.acme.api","children":[
    {"type":"class","name":"com.acme.api.Api","modifiers":["public"],"children":[
      {"type":"method","name":"get()","attributes":{"return":"java.lang.String"}}]}]}]}`,
		"api.toml": `
type = "bundle"
name = "com.acme.api"
version = "1.2.0"

[[children]]
type = "package"
name = "com.acme.api"

[[children.children]]
type = "class"
name = "com.acme.api.Api"
modifiers = ["public"]

[[children.children.children]]
type = "method"
name = "get()"
attributes = { return = "java.lang.String" }
`,
	}
	adapter := NewSnapshotFileAdapter()
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			got, err := adapter.LoadSnapshot(writeFile(t, dir, name, content))
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("unexpected snapshot (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSnapshotFileAdapterErrors(t *testing.T) {
	dir := t.TempDir()
	adapter := NewSnapshotFileAdapter()

	_, err := adapter.LoadSnapshot(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = adapter.LoadSnapshot(writeFile(t, dir, "bad.json", `{"type": `))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestPolicyFileAdapter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "policy.yaml", `
api_version: apibaseline/v1
metadata:
  name: acme
defaults:
  output: out
  parallelism: 4
diff:
  ignore: ["com.acme.internal*", "method:debug*"]
baseline:
  fail_on_warning: true
  skip: [com.acme.experimental]
resolve:
  first_match: true
  blacklist: ["(resource=evil)"]
  resolutions:
    - dependency: libfoo
      action: force
      value: "1.4-2"
      reason: abi break in 2.x
      owner: platform
`)
	policy, err := NewPolicyFileAdapter().LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", policy.Metadata.Name)
	assert.Equal(t, 4, policy.Defaults.Parallelism)
	assert.Equal(t, []string{"com.acme.internal*", "method:debug*"}, policy.Diff.Ignore)
	assert.True(t, policy.Baseline.FailOnWarning)
	assert.True(t, policy.Resolve.FirstMatch)
	require.Len(t, policy.Resolve.Resolutions, 1)
	assert.Equal(t, types.ResolutionForce, policy.Resolve.Resolutions[0].Action)

	_, err = NewPolicyFileAdapter().LoadPolicy(writeFile(t, dir, "v2.yaml", "api_version: apibaseline/v2\n"))
	require.Error(t, err)
}

func TestRequirementsFileAdapter(t *testing.T) {
	path := writeFile(t, t.TempDir(), "requirements.toml", `
resources = ["app"]

[[requirements]]
namespace = "osgi.wiring.package"
filter = "(osgi.wiring.package=com.acme.api)"
directives = { resolution = "optional" }
`)
	file, err := NewRequirementsFileAdapter().LoadRequirements(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"app"}, file.Resources)
	require.Len(t, file.Requirements, 1)
	assert.True(t, file.Requirements[0].Optional())
}
