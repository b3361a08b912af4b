package app

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"apibaseline/internal/types"
	"apibaseline/internal/version"
)

// CompareVersions orders two versions under one versioning scheme and
// returns -1, 0 or 1.
func (s Service) CompareVersions(req CompareVersionsRequest) (CompareVersionsResult, error) {
	left, right := strings.TrimSpace(req.Left), strings.TrimSpace(req.Right)
	switch req.Scheme {
	case SchemeOSGi, "":
		a, err := version.Parse(left)
		if err != nil {
			return CompareVersionsResult{}, err
		}
		b, err := version.Parse(right)
		if err != nil {
			return CompareVersionsResult{}, err
		}
		return CompareVersionsResult{Order: version.Compare(a, b)}, nil
	case SchemeSemVer:
		a, err := semver.NewVersion(left)
		if err != nil {
			return CompareVersionsResult{}, schemeError(req.Scheme, left, err)
		}
		b, err := semver.NewVersion(right)
		if err != nil {
			return CompareVersionsResult{}, schemeError(req.Scheme, right, err)
		}
		return CompareVersionsResult{Order: a.Compare(b)}, nil
	case SchemeDeb:
		a, err := debversion.NewVersion(left)
		if err != nil {
			return CompareVersionsResult{}, schemeError(req.Scheme, left, err)
		}
		b, err := debversion.NewVersion(right)
		if err != nil {
			return CompareVersionsResult{}, schemeError(req.Scheme, right, err)
		}
		return CompareVersionsResult{Order: sign(a.Compare(b))}, nil
	case SchemePep440:
		a, err := pep440.Parse(left)
		if err != nil {
			return CompareVersionsResult{}, schemeError(req.Scheme, left, err)
		}
		b, err := pep440.Parse(right)
		if err != nil {
			return CompareVersionsResult{}, schemeError(req.Scheme, right, err)
		}
		return CompareVersionsResult{Order: sign(a.Compare(b))}, nil
	default:
		return CompareVersionsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown version scheme: %s", req.Scheme))
	}
}

// CleanupVersion turns a loosely written version into a valid one.
func (s Service) CleanupVersion(raw string) string {
	return version.Cleanup(raw)
}

// CheckRange normalizes a range, renders it as a requirement filter and
// reports which of the given versions it includes.
func (s Service) CheckRange(req RangeRequest) (RangeResult, error) {
	r, err := version.ParseRange(req.Range)
	if err != nil {
		return RangeResult{}, err
	}
	result := RangeResult{
		Normalized: r.String(),
		Filter:     r.ToFilter(types.AttributeVersion),
		Included:   map[string]bool{},
	}
	for _, raw := range req.Versions {
		v, err := version.Parse(raw)
		if err != nil {
			return RangeResult{}, err
		}
		result.Included[raw] = r.Includes(v)
	}
	return result, nil
}

func schemeError(scheme VersionScheme, raw string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: %q is not a valid %s version", version.MalformedPrefix, raw, scheme)).
		WithCause(cause)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
