package app

import (
	"fmt"
	"strings"

	"apibaseline/internal/types"
)

// defaultsHint pairs a flag name with a policy defaults key for hint messages.
type defaultsHint struct {
	FlagName    string
	DefaultsKey string
}

type defaultsCheck struct {
	hint       defaultsHint
	provided   bool
	hasDefault bool
}

// outputDefaultsHints returns a hint when --output repeats a policy default.
func outputDefaultsHints(outputDir string, defaults types.PolicyDefaults) []string {
	return collectHints([]defaultsCheck{{
		hint:       defaultsHint{"--output", "defaults.output"},
		provided:   strings.TrimSpace(outputDir) != "",
		hasDefault: defaults.Output != "",
	}})
}

// resolveDefaultsHints returns hints for resolve flags that could be
// replaced by policy defaults.
func resolveDefaultsHints(req ResolveRequest, defaults types.PolicyDefaults) []string {
	hints := outputDefaultsHints(req.OutputDir, defaults)
	return append(hints, collectHints([]defaultsCheck{
		{
			hint:       defaultsHint{"--index", "defaults.index"},
			provided:   len(req.IndexPaths) > 0,
			hasDefault: defaults.Index != "",
		},
		{
			hint:       defaultsHint{"--parallelism", "defaults.parallelism"},
			provided:   req.Parallelism > 0,
			hasDefault: defaults.Parallelism > 0,
		},
	})...)
}

func collectHints(checks []defaultsCheck) []string {
	var hints []string
	for _, c := range checks {
		if c.provided && c.hasDefault {
			hints = append(hints, fmt.Sprintf(
				"hint: %s is also set in the policy (%s); you can omit the flag",
				c.hint.FlagName, c.hint.DefaultsKey,
			))
		}
	}
	return hints
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}
