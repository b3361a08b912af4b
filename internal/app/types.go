package app

import "apibaseline/internal/types"

type DiffRequest struct {
	OlderPath   string
	NewerPath   string
	PolicyPath  string
	Ignore      []string
	OutputDir   string
	Parallelism int
}

type DiffResult struct {
	Diff      types.Diff
	OutputDir string
	Hints     []string
}

type BaselineRequest struct {
	OlderPath     string
	NewerPath     string
	PolicyPath    string
	Ignore        []string
	Skip          []string
	FailOnWarning bool
	OutputDir     string
	Parallelism   int
}

type BaselineResult struct {
	Report    types.BaselineReport
	Diff      types.Diff
	OutputDir string
	Hints     []string
}

type ResolveRequest struct {
	IndexPaths       []string
	RequirementsPath string
	Resources        []string
	PolicyPath       string
	Effective        []string
	FirstMatch       bool
	// FailOnUnsatisfied overrides the policy when set.
	FailOnUnsatisfied *bool
	OutputDir         string
	Parallelism       int
}

type ResolveResult struct {
	Report    types.ResolutionReport
	OutputDir string
	Hints     []string
}

type InspectRequest struct {
	OutputDir string
}

// InspectResult holds whichever reports were found in the output
// directory.
type InspectResult struct {
	Diff       *types.Diff
	Baseline   *types.BaselineReport
	Resolution *types.ResolutionReport
}

// VersionScheme selects the version model used by version comparisons.
type VersionScheme string

const (
	SchemeOSGi   VersionScheme = "osgi"
	SchemeSemVer VersionScheme = "semver"
	SchemeDeb    VersionScheme = "deb"
	SchemePep440 VersionScheme = "pep440"
)

type CompareVersionsRequest struct {
	Scheme VersionScheme
	Left   string
	Right  string
}

type CompareVersionsResult struct {
	Order int
}

type RangeRequest struct {
	Range    string
	Versions []string
}

type RangeResult struct {
	Normalized string
	Filter     string
	Included   map[string]bool
}
