package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apibaseline/tests/testutil"
)

var (
	buildOnce sync.Once
	binary    string
	buildErr  error
	buildOut  []byte
)

// cliBinary builds ./cmd/apibaseline once per test run. `go run` reports
// every failure as exit status 1, so exit codes are checked on a built
// binary.
func cliBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "apibaseline-e2e")
		if err != nil {
			buildErr = err
			return
		}
		binary = filepath.Join(dir, "apibaseline")
		cmd := exec.Command("go", "build", "-o", binary, "./cmd/apibaseline")
		cmd.Dir = testutil.RepoRoot(t)
		cmd.Env = append(os.Environ(), "GO111MODULE=on")
		buildOut, buildErr = cmd.CombinedOutput()
	})
	require.NoError(t, buildErr, string(buildOut))
	return binary
}

func TestMain(m *testing.M) {
	code := m.Run()
	if binary != "" {
		_ = os.RemoveAll(filepath.Dir(binary))
	}
	os.Exit(code)
}

func runCLI(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(cliBinary(t), args...)
	cmd.Dir = testutil.RepoRoot(t)
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), exitErr.ExitCode()
	}
	require.NoError(t, err, string(out))
	return string(out), 0
}

func TestDiffCommandE2E(t *testing.T) {
	out, code := runCLI(t, "diff",
		"--older", "fixtures/api-1.0.0.yaml",
		"--newer", "fixtures/api-1.1.0.yaml",
		"--policy", "fixtures/policy.yaml",
		"--format", "json",
	)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, `"delta": "MINOR"`)
}

func TestBaselineCommandE2E(t *testing.T) {
	outDir := t.TempDir()
	metrics := filepath.Join(t.TempDir(), "apibaseline.prom")

	out, code := runCLI(t, "baseline",
		"--older", "fixtures/api-1.0.0.yaml",
		"--newer", "fixtures/api-1.1.0-broken.toml",
		"--policy", "fixtures/policy.yaml",
		"--output", outDir,
		"--metrics-file", metrics,
	)
	require.Equal(t, 3, code, out)
	assert.Contains(t, out, "baseline mismatch")

	require.FileExists(t, filepath.Join(outDir, "diff.yaml"))
	require.FileExists(t, filepath.Join(outDir, "baseline.report"))
	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apibaseline_baseline_mismatches_total")

	out, code = runCLI(t, "inspect", "--output", outDir, "--format", "yaml")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "suggested_version: 2.0.0")
}

func TestResolveCommandE2E(t *testing.T) {
	outDir := t.TempDir()

	out, code := runCLI(t, "resolve",
		"--index", "fixtures/index.yaml",
		"--requirements", "fixtures/requirements.toml",
		"--policy", "fixtures/policy.yaml",
		"--output", outDir,
	)
	require.Equal(t, 0, code, out)

	require.FileExists(t, filepath.Join(outDir, "resolution.report"))
	lock, err := os.ReadFile(filepath.Join(outDir, "apt.lock"))
	require.NoError(t, err)
	assert.Equal(t, "libfoo=1.9-1", strings.TrimSpace(string(lock)))

	out, code = runCLI(t, "resolve",
		"--index", "fixtures/index.yaml",
		"--resource", "app",
		"--effective", "active",
		"--policy", "fixtures/policy.yaml",
		"--fail-on-unsatisfied",
	)
	require.Equal(t, 0, code, out)

	out, code = runCLI(t, "resolve",
		"--index", "fixtures/index.yaml",
		"--resource", "app",
	)
	require.Equal(t, 0, code, out)
}

func TestVersionCommandE2E(t *testing.T) {
	out, code := runCLI(t, "version", "compare", "--scheme", "pep440", "2.0.0rc1", "2.0.0")
	require.Equal(t, 0, code, out)
	assert.Equal(t, "-1", strings.TrimSpace(out))

	out, code = runCLI(t, "version", "compare", "--scheme", "semver", "not-a-version", "1.0.0")
	assert.Equal(t, 2, code, out)
}
