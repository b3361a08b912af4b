package core

import (
	"apibaseline/internal/types"
	"apibaseline/internal/version"
)

// Aggregate folds a child delta into a running parent delta:
//
//   - REMOVED forces MAJOR, whatever the parent;
//   - UNCHANGED, or a child equal to the parent, leaves the parent as is;
//   - ADDED raises the parent to at least MINOR;
//   - any other child yields the more severe of the two.
//
// The fold is commutative and associative with UNCHANGED as identity, so the
// order children are visited in never changes the result.
func Aggregate(parent types.Delta, child types.Delta) types.Delta {
	switch {
	case child == types.DeltaRemoved:
		return types.DeltaMajor
	case child == types.DeltaUnchanged || child == parent:
		return parent
	case child == types.DeltaAdded:
		return MaxDelta(parent, types.DeltaMinor)
	default:
		return MaxDelta(parent, child)
	}
}

// AggregateAll folds deltas into UNCHANGED.
func AggregateAll(deltas ...types.Delta) types.Delta {
	result := types.DeltaUnchanged
	for _, d := range deltas {
		result = Aggregate(result, d)
	}
	return result
}

// MaxDelta returns the more severe of a and b on the ordered scale. ADDED
// and REMOVED count as MINOR and MAJOR and are never returned.
func MaxDelta(a types.Delta, b types.Delta) types.Delta {
	a, b = severity(a), severity(b)
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// DeltaAtLeast reports whether d is at least as severe as floor.
func DeltaAtLeast(d types.Delta, floor types.Delta) bool {
	return d.Rank() >= floor.Rank()
}

// Bump returns the smallest version following v that the delta requires:
// the next major for MAJOR, the next minor for MINOR, the next micro for
// MICRO and v without qualifier otherwise.
func Bump(v version.Version, delta types.Delta) version.Version {
	switch severity(delta) {
	case types.DeltaMajor:
		return v.NextMajor()
	case types.DeltaMinor:
		return v.NextMinor()
	case types.DeltaMicro:
		return v.NextMicro()
	default:
		return v.WithoutQualifier()
	}
}

func severity(d types.Delta) types.Delta {
	switch d {
	case types.DeltaAdded:
		return types.DeltaMinor
	case types.DeltaRemoved:
		return types.DeltaMajor
	}
	return d
}
