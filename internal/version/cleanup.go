package version

import (
	"regexp"
	"strings"
)

var (
	fuzzyVersion  = regexp.MustCompile(`(?s)^(\d+)(?:\.(\d+)(?:\.(\d+))?)?(?:[^a-zA-Z0-9](.*))?$`)
	fuzzyRange    = regexp.MustCompile(`(?s)^(\(|\[)\s*([-\da-zA-Z.]+)\s*,\s*([-\da-zA-Z.]+)\s*(\]|\))$`)
	fuzzyModifier = regexp.MustCompile(`(?s)^(?:\d+[.-])*(.*)$`)
)

// maxComponentDigits matches the numeric component width Parse accepts.
const maxComponentDigits = 9

// Cleanup turns a loosely formatted version or range (as found in foreign
// manifests: "1", "1.2-SNAPSHOT", "01.002", "[1.0 , 2)") into one Parse or
// ParseRange accepts. Input it cannot make sense of is returned unchanged.
func Cleanup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if r, err := ParseRange(trimmed); err == nil && strings.ContainsAny(trimmed[:1], "[(") {
		return r.String()
	}
	if m := fuzzyRange.FindStringSubmatch(trimmed); m != nil {
		cleaned := m[1] + Cleanup(m[2]) + "," + Cleanup(m[3]) + m[4]
		if _, err := ParseRange(cleaned); err != nil {
			return raw
		}
		return cleaned
	}
	m := fuzzyVersion.FindStringSubmatch(trimmed)
	if m == nil {
		return raw
	}
	major := stripLeadingZeroes(m[1])
	if len(major) > maxComponentDigits {
		return raw
	}
	minor := stripLeadingZeroes(m[2])
	micro := stripLeadingZeroes(m[3])
	qualifier, hasQualifier := m[4], m[4] != ""
	if !hasQualifier {
		if len(minor) > maxComponentDigits {
			qualifier, hasQualifier, minor = minor, true, "0"
		} else if len(micro) > maxComponentDigits {
			qualifier, hasQualifier, micro = micro, true, "0"
		}
	}
	var b strings.Builder
	b.WriteString(major)
	b.WriteByte('.')
	b.WriteString(minor)
	b.WriteByte('.')
	b.WriteString(micro)
	if hasQualifier {
		if cleaned := cleanModifier(qualifier); cleaned != "" {
			b.WriteByte('.')
			b.WriteString(cleaned)
		}
	}
	if _, err := Parse(b.String()); err != nil {
		return raw
	}
	return b.String()
}

func stripLeadingZeroes(group string) string {
	if group == "" {
		return "0"
	}
	n := 0
	for n < len(group)-1 && group[n] == '0' {
		n++
	}
	return group[n:]
}

func cleanModifier(modifier string) string {
	if m := fuzzyModifier.FindStringSubmatch(modifier); m != nil {
		modifier = m[1]
	}
	var b strings.Builder
	for _, r := range modifier {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
