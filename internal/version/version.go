// Package version implements the major.minor.micro.qualifier version model
// used for bundles, packages and capability attributes, together with
// version ranges.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// MalformedPrefix starts the message of every error returned for an
// unparseable version or range.
const MalformedPrefix = "malformed version"

var versionPattern = regexp.MustCompile(`^(\d{1,9})(?:\.(\d{1,9})(?:\.(\d{1,9})(?:\.([-_0-9A-Za-z]+))?)?)?$`)

// Version is an immutable (major, minor, micro, qualifier) tuple.
type Version struct {
	major     uint32
	minor     uint32
	micro     uint32
	qualifier string
}

// Lowest is the zero version 0.0.0.
var Lowest = Version{}

// maxComponent is the largest numeric component Parse reads back.
const maxComponent = 999999999

// New builds a version from its components. Numeric components are limited
// to nine digits and the qualifier must only hold [A-Za-z0-9_-] characters.
func New(major, minor, micro uint32, qualifier string) (Version, error) {
	if major > maxComponent || minor > maxComponent || micro > maxComponent {
		return Version{}, malformed(fmt.Sprintf("%s: component of %d.%d.%d exceeds %d", MalformedPrefix, major, minor, micro, maxComponent), nil)
	}
	if !validQualifier(qualifier) {
		return Version{}, malformed(fmt.Sprintf("%s: invalid qualifier %q", MalformedPrefix, qualifier), nil)
	}
	return Version{major: major, minor: minor, micro: micro, qualifier: qualifier}, nil
}

// Parse reads a version of the form major[.minor[.micro[.qualifier]]].
// Missing components default to 0 and the empty qualifier.
func Parse(raw string) (Version, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Version{}, malformed(fmt.Sprintf("%s: empty string", MalformedPrefix), nil)
	}
	m := versionPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Version{}, malformed(fmt.Sprintf("%s: %q", MalformedPrefix, raw), nil)
	}
	var parts [3]uint32
	for i := 0; i < 3; i++ {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseUint(m[i+1], 10, 32)
		if err != nil {
			return Version{}, malformed(fmt.Sprintf("%s: %q", MalformedPrefix, raw), err)
		}
		parts[i] = uint32(n)
	}
	return Version{major: parts[0], minor: parts[1], micro: parts[2], qualifier: m[4]}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) Major() uint32 {
	return v.major
}

func (v Version) Minor() uint32 {
	return v.minor
}

func (v Version) Micro() uint32 {
	return v.micro
}

func (v Version) Qualifier() string {
	return v.qualifier
}

// Compare returns -1, 0 or 1. The numeric triple is compared first, then
// the qualifier as a case-sensitive string where the empty qualifier sorts
// before any other.
func Compare(a, b Version) int {
	switch {
	case a.major != b.major:
		return cmpUint(a.major, b.major)
	case a.minor != b.minor:
		return cmpUint(a.minor, b.minor)
	case a.micro != b.micro:
		return cmpUint(a.micro, b.micro)
	}
	return strings.Compare(a.qualifier, b.qualifier)
}

func (v Version) Compare(other Version) int {
	return Compare(v, other)
}

func (v Version) Equal(other Version) bool {
	return Compare(v, other) == 0
}

func (v Version) Less(other Version) bool {
	return Compare(v, other) < 0
}

// WithoutQualifier drops the qualifier.
func (v Version) WithoutQualifier() Version {
	return Version{major: v.major, minor: v.minor, micro: v.micro}
}

// NextMajor returns (major+1).0.0.
func (v Version) NextMajor() Version {
	return Version{major: v.major + 1}
}

// NextMinor returns major.(minor+1).0.
func (v Version) NextMinor() Version {
	return Version{major: v.major, minor: v.minor + 1}
}

// NextMicro returns major.minor.(micro+1).
func (v Version) NextMicro() Version {
	return Version{major: v.major, minor: v.minor, micro: v.micro + 1}
}

func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(v.major), 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(uint64(v.minor), 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(uint64(v.micro), 10))
	if v.qualifier != "" {
		b.WriteByte('.')
		b.WriteString(v.qualifier)
	}
	return b.String()
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func cmpUint(a, b uint32) int {
	if a < b {
		return -1
	}
	return 1
}

func validQualifier(q string) bool {
	for _, r := range q {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func malformed(msg string, cause error) error {
	b := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b
}
