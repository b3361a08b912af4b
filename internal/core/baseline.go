package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"apibaseline/internal/shared"
	"apibaseline/internal/types"
	"apibaseline/internal/version"
)

type BaselineOptions struct {
	// Skip lists package name patterns (exact, "prefix*" or "*") whose rows
	// are reported but never mismatch.
	Skip []string
}

// Baseline checks version-bump discipline for the root of a Diff and every
// package below it: the newer version must be at least the bump implied by
// the delta.
func Baseline(ctx context.Context, root types.Diff, opts BaselineOptions) types.BaselineReport {
	report := types.BaselineReport{Bundle: baselineRow(root)}
	root.Walk(func(node *types.Diff, depth int) bool {
		if depth == 0 {
			return true
		}
		if node.Type != types.ElementPackage {
			return !node.Type.IsTypeDeclaration()
		}
		row := baselineRow(*node)
		if node.Delta == types.DeltaRemoved {
			row.Mismatch = report.Bundle.Mismatch
		}
		if row.Mismatch && slices.ContainsFunc(opts.Skip, func(pattern string) bool { return shared.MatchPattern(pattern, row.Name) }) {
			row.Mismatch = false
			row.Warning = joinNotes(row.Warning, "mismatch skipped by policy")
		}
		report.Packages = append(report.Packages, row)
		return false
	})
	log.Ctx(ctx).Debug().
		Str("bundle", root.Name).
		Str("delta", string(root.Delta)).
		Int("packages", len(report.Packages)).
		Int("mismatches", len(report.Mismatches())).
		Msg("baseline computed")
	return report
}

// CheckBaseline fails with a baseline mismatch error when any row is
// flagged, or, with failOnWarning, when any row carries a warning.
func CheckBaseline(report types.BaselineReport, failOnWarning bool) error {
	var names []string
	for _, row := range report.Mismatches() {
		names = append(names, fmt.Sprintf("%s (%s %s -> %s, need %s)", row.Name, row.Delta, versionString(row.OlderVersion), versionString(row.NewerVersion), versionString(row.SuggestedVersion)))
	}
	if failOnWarning {
		for _, row := range append([]types.BaselineInfo{report.Bundle}, report.Packages...) {
			if row.Warning != "" && !row.Mismatch {
				names = append(names, fmt.Sprintf("%s (%s)", row.Name, row.Warning))
			}
		}
	}
	if len(names) == 0 {
		return nil
	}
	return shared.BaselineMismatch("%s", strings.Join(names, ", "))
}

func baselineRow(node types.Diff) types.BaselineInfo {
	row := types.BaselineInfo{
		Name:         node.Name,
		Type:         node.Type,
		Delta:        node.Delta,
		OlderVersion: node.OlderVersion,
		NewerVersion: node.NewerVersion,
	}
	switch {
	case node.Delta == types.DeltaAdded:
		row.SuggestedVersion = node.NewerVersion
		row.Reason = "added"
		return row
	case node.Delta == types.DeltaRemoved:
		row.Reason = "removed"
		return row
	case node.OlderVersion == nil || node.NewerVersion == nil:
		row.Warning = "no version recorded"
		return row
	}
	older, newer := *node.OlderVersion, *node.NewerVersion
	suggested := Bump(older, node.Delta)
	if !DeltaAtLeast(severity(node.Delta), types.DeltaMicro) && newer.Less(older) {
		suggested = older
	}
	if newer.Less(suggested) {
		row.Mismatch = true
		row.SuggestedVersion = &suggested
		row.Reason = fmt.Sprintf("%s change requires version %s or higher, found %s", node.Delta, suggested, newer)
		return row
	}
	row.SuggestedVersion = &newer
	if node.Delta != types.DeltaMajor && newer.Major() > suggested.Major() {
		row.Warning = fmt.Sprintf("excessive bump: %s change needs only %s", node.Delta, suggested)
	}
	return row
}

func versionString(v *version.Version) string {
	if v == nil {
		return "-"
	}
	return v.String()
}

func joinNotes(existing string, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
