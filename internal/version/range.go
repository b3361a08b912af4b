package version

import (
	"fmt"
	"strings"
)

// Range is a version interval with independently inclusive or exclusive
// endpoints. A nil ceiling means the range is unbounded above.
type Range struct {
	floor            Version
	floorInclusive   bool
	ceiling          *Version
	ceilingInclusive bool
}

// AtLeast returns the range [floor, ∞).
func AtLeast(floor Version) Range {
	return Range{floor: floor, floorInclusive: true}
}

// Between builds a bounded range. It fails when the range would be empty.
func Between(floor Version, floorInclusive bool, ceiling Version, ceilingInclusive bool) (Range, error) {
	r := Range{
		floor:            floor,
		floorInclusive:   floorInclusive,
		ceiling:          &ceiling,
		ceilingInclusive: ceilingInclusive,
	}
	if r.isEmpty() {
		return Range{}, malformed(fmt.Sprintf("%s: empty range %s", MalformedPrefix, r.String()), nil)
	}
	return r, nil
}

// ParseRange reads "[a,b]", "[a,b)", "(a,b]", "(a,b)" or a bare version
// "a", which is read as [a, ∞).
func ParseRange(raw string) (Range, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Range{}, malformed(fmt.Sprintf("%s: empty range", MalformedPrefix), nil)
	}
	first := trimmed[0]
	if first != '[' && first != '(' {
		floor, err := Parse(trimmed)
		if err != nil {
			return Range{}, err
		}
		return AtLeast(floor), nil
	}
	last := trimmed[len(trimmed)-1]
	if len(trimmed) < 2 || (last != ']' && last != ')') {
		return Range{}, malformed(fmt.Sprintf("%s: unterminated range %q", MalformedPrefix, raw), nil)
	}
	body := trimmed[1 : len(trimmed)-1]
	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return Range{}, malformed(fmt.Sprintf("%s: range needs two endpoints %q", MalformedPrefix, raw), nil)
	}
	floor, err := Parse(parts[0])
	if err != nil {
		return Range{}, err
	}
	ceiling, err := Parse(parts[1])
	if err != nil {
		return Range{}, err
	}
	return Between(floor, first == '[', ceiling, last == ']')
}

// MustParseRange is ParseRange for literals known to be valid.
func MustParseRange(raw string) Range {
	r, err := ParseRange(raw)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Range) Floor() Version {
	return r.floor
}

func (r Range) FloorInclusive() bool {
	return r.floorInclusive
}

func (r Range) Ceiling() (Version, bool) {
	if r.ceiling == nil {
		return Version{}, false
	}
	return *r.ceiling, true
}

func (r Range) CeilingInclusive() bool {
	return r.ceilingInclusive
}

// Includes reports whether v lies within the range bounds.
func (r Range) Includes(v Version) bool {
	c := Compare(v, r.floor)
	if c < 0 || (c == 0 && !r.floorInclusive) {
		return false
	}
	if r.ceiling == nil {
		return true
	}
	c = Compare(v, *r.ceiling)
	if c > 0 || (c == 0 && !r.ceilingInclusive) {
		return false
	}
	return true
}

func (r Range) String() string {
	if r.ceiling == nil {
		if r.floorInclusive {
			return r.floor.String()
		}
		return "(" + r.floor.String() + ",∞)"
	}
	open, closing := "(", ")"
	if r.floorInclusive {
		open = "["
	}
	if r.ceilingInclusive {
		closing = "]"
	}
	return open + r.floor.String() + "," + r.ceiling.String() + closing
}

// ToFilter renders the range as a filter expression over attribute attr.
func (r Range) ToFilter(attr string) string {
	var clauses []string
	clauses = append(clauses, fmt.Sprintf("(%s>=%s)", attr, r.floor))
	if !r.floorInclusive {
		clauses = append(clauses, fmt.Sprintf("(!(%s=%s))", attr, r.floor))
	}
	if r.ceiling != nil {
		clauses = append(clauses, fmt.Sprintf("(%s<=%s)", attr, *r.ceiling))
		if !r.ceilingInclusive {
			clauses = append(clauses, fmt.Sprintf("(!(%s=%s))", attr, *r.ceiling))
		}
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(&" + strings.Join(clauses, "") + ")"
}

func (r Range) isEmpty() bool {
	if r.ceiling == nil {
		return false
	}
	c := Compare(r.floor, *r.ceiling)
	if c > 0 {
		return true
	}
	return c == 0 && !(r.floorInclusive && r.ceilingInclusive)
}
