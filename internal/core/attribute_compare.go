package core

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"apibaseline/internal/version"
)

// AttributeType selects how capability attribute values are compared.
type AttributeType string

const (
	AttributeString     AttributeType = "String"
	AttributeVersion    AttributeType = "Version"
	AttributeLong       AttributeType = "Long"
	AttributeDouble     AttributeType = "Double"
	AttributeStringList AttributeType = "List<String>"
	AttributeDebVersion AttributeType = "DebVersion"
	AttributePep440     AttributeType = "Pep440"
	AttributeSemVer     AttributeType = "SemVer"
)

var knownAttributeTypes = map[AttributeType]struct{}{
	AttributeString:     {},
	AttributeVersion:    {},
	AttributeLong:       {},
	AttributeDouble:     {},
	AttributeStringList: {},
	AttributeDebVersion: {},
	AttributePep440:     {},
	AttributeSemVer:     {},
}

// SplitAttributeKey splits "version:Version" into its name and type.
// Untyped keys are strings, except "version" which defaults to Version.
func SplitAttributeKey(key string) (string, AttributeType) {
	name, typ, found := strings.Cut(key, ":")
	name = strings.TrimSpace(name)
	if found {
		candidate := AttributeType(strings.TrimSpace(typ))
		if _, ok := knownAttributeTypes[candidate]; ok {
			return name, candidate
		}
		return strings.TrimSpace(key), AttributeString
	}
	if name == "version" || name == "bundle-version" {
		return name, AttributeVersion
	}
	return name, AttributeString
}

type typedValue struct {
	typ AttributeType
	raw string
}

// typedAttributes indexes capability attributes by bare name.
func typedAttributes(attrs map[string]string) map[string]typedValue {
	out := make(map[string]typedValue, len(attrs))
	for key, raw := range attrs {
		name, typ := SplitAttributeKey(key)
		out[strings.ToLower(name)] = typedValue{typ: typ, raw: raw}
	}
	return out
}

// valueCache memoizes parsed version objects to avoid repeated parsing
// while sorting and filtering one candidate list. It is not safe for
// concurrent use.
type valueCache struct {
	osgi map[string]version.Version
	deb  map[string]debversion.Version
	pep  map[string]pep440.Version
	sem  map[string]*semver.Version
}

func newValueCache() *valueCache {
	return &valueCache{
		osgi: map[string]version.Version{},
		deb:  map[string]debversion.Version{},
		pep:  map[string]pep440.Version{},
		sem:  map[string]*semver.Version{},
	}
}

func (c *valueCache) osgiVersion(value string) (version.Version, error) {
	if parsed, ok := c.osgi[value]; ok {
		return parsed, nil
	}
	parsed, err := version.Parse(value)
	if err != nil {
		return version.Version{}, err
	}
	c.osgi[value] = parsed
	return parsed, nil
}

func (c *valueCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

func (c *valueCache) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

func (c *valueCache) semVersion(value string) (*semver.Version, error) {
	if parsed, ok := c.sem[value]; ok {
		return parsed, nil
	}
	parsed, err := semver.NewVersion(value)
	if err != nil {
		return nil, err
	}
	c.sem[value] = parsed
	return parsed, nil
}

// compare orders two raw values of the given type. ok is false when either
// value cannot be read as that type.
func (c *valueCache) compare(typ AttributeType, a string, b string) (int, bool) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch typ {
	case AttributeVersion:
		v1, err := c.osgiVersion(a)
		if err != nil {
			return 0, false
		}
		v2, err := c.osgiVersion(b)
		if err != nil {
			return 0, false
		}
		return version.Compare(v1, v2), true
	case AttributeDebVersion:
		v1, err := c.debVersion(a)
		if err != nil {
			return 0, false
		}
		v2, err := c.debVersion(b)
		if err != nil {
			return 0, false
		}
		return v1.Compare(v2), true
	case AttributePep440:
		v1, err := c.pepVersion(a)
		if err != nil {
			return 0, false
		}
		v2, err := c.pepVersion(b)
		if err != nil {
			return 0, false
		}
		return v1.Compare(v2), true
	case AttributeSemVer:
		v1, err := c.semVersion(a)
		if err != nil {
			return 0, false
		}
		v2, err := c.semVersion(b)
		if err != nil {
			return 0, false
		}
		return v1.Compare(v2), true
	case AttributeLong:
		n1, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return 0, false
		}
		n2, err := strconv.ParseInt(b, 10, 64)
		if err != nil {
			return 0, false
		}
		return cmpOrdered(n1, n2), true
	case AttributeDouble:
		f1, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return 0, false
		}
		f2, err := strconv.ParseFloat(b, 64)
		if err != nil {
			return 0, false
		}
		return cmpOrdered(f1, f2), true
	default:
		return strings.Compare(a, b), true
	}
}

// approx implements the "~=" operator: a specifier check for Pep440 and
// SemVer values, and a case and whitespace insensitive equality otherwise.
func (c *valueCache) approx(typ AttributeType, actual string, wanted string) bool {
	switch typ {
	case AttributePep440:
		v, err := c.pepVersion(strings.TrimSpace(actual))
		if err != nil {
			return false
		}
		spec, err := pep440.NewSpecifiers(wanted)
		if err != nil {
			return false
		}
		return spec.Check(v)
	case AttributeSemVer:
		v, err := c.semVersion(strings.TrimSpace(actual))
		if err != nil {
			return false
		}
		constraint, err := semver.NewConstraint(wanted)
		if err != nil {
			return false
		}
		return constraint.Check(v)
	case AttributeString, AttributeStringList:
		return normalizeApprox(actual) == normalizeApprox(wanted)
	default:
		cmp, ok := c.compare(typ, actual, wanted)
		return ok && cmp == 0
	}
}

func normalizeApprox(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), ""))
}

func cmpOrdered[T int64 | float64](a T, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// splitList reads a List<String> attribute value.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}
