// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// Fixture returns the absolute path of a file under fixtures/.
func Fixture(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(RepoRoot(t), "fixtures", name)
}

// AssertGolden compares the file at actualPath with goldenDir/name. A
// missing golden file is written from the actual output so it can be
// committed; delete the golden directory to regenerate after an
// intentional change.
func AssertGolden(t *testing.T, goldenDir string, name string, actualPath string) {
	t.Helper()
	actual, err := os.ReadFile(actualPath)
	require.NoError(t, err)

	goldenPath := filepath.Join(goldenDir, name)
	if _, statErr := os.Stat(goldenPath); os.IsNotExist(statErr) {
		require.NoError(t, os.MkdirAll(goldenDir, 0o755))
		require.NoError(t, os.WriteFile(goldenPath, actual, 0o644))
		t.Logf("golden file written: %s (commit it)", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(actual),
		"golden mismatch for %s -- delete testdata/golden/ and re-run to regenerate", name)
}
