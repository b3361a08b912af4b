package core

import (
	"fmt"
	"slices"
	"strings"

	"apibaseline/internal/shared"
)

type filterOp string

const (
	filterEq     filterOp = "="
	filterApprox filterOp = "~="
	filterGte    filterOp = ">="
	filterLte    filterOp = "<="
)

// filterOps is tried in order; two-character operators precede "=".
var filterOps = []filterOp{
	filterApprox,
	filterGte,
	filterLte,
	filterEq,
}

// Filter is a parsed requirement filter such as
// "(&(name=foo)(version>=1.2)(!(deprecated=*)))". The zero Filter matches
// everything.
type Filter struct {
	raw  string
	root filterNode
}

type filterNode interface {
	match(attrs map[string]typedValue, cache *valueCache) bool
	collect(names map[string]struct{})
}

// ParseFilter parses an LDAP-style filter. Blank input yields the match-all
// filter.
func ParseFilter(raw string) (Filter, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Filter{}, nil
	}
	p := &filterParser{input: trimmed}
	node, err := p.parseFilter()
	if err != nil {
		return Filter{}, shared.InvalidFilter(raw, err)
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return Filter{}, shared.InvalidFilter(raw, fmt.Errorf("position %d: trailing input", p.pos))
	}
	return Filter{raw: trimmed, root: node}, nil
}

// MustParseFilter is ParseFilter for literals known to be valid.
func MustParseFilter(raw string) Filter {
	f, err := ParseFilter(raw)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Filter) String() string {
	return f.raw
}

// Matches evaluates the filter against capability attributes. Keys may
// carry a type suffix ("version:Version").
func (f Filter) Matches(attrs map[string]string) bool {
	return f.matchTyped(typedAttributes(attrs), newValueCache())
}

func (f Filter) matchTyped(attrs map[string]typedValue, cache *valueCache) bool {
	if f.root == nil {
		return true
	}
	return f.root.match(attrs, cache)
}

// Attributes lists the lower-cased attribute names the filter references.
func (f Filter) Attributes() []string {
	if f.root == nil {
		return nil
	}
	names := map[string]struct{}{}
	f.root.collect(names)
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// ----------------------------------------------------------------------------
// Nodes
// ----------------------------------------------------------------------------

type andNode struct{ children []filterNode }

func (n andNode) match(attrs map[string]typedValue, cache *valueCache) bool {
	for _, child := range n.children {
		if !child.match(attrs, cache) {
			return false
		}
	}
	return true
}

func (n andNode) collect(names map[string]struct{}) {
	for _, child := range n.children {
		child.collect(names)
	}
}

type orNode struct{ children []filterNode }

func (n orNode) match(attrs map[string]typedValue, cache *valueCache) bool {
	for _, child := range n.children {
		if child.match(attrs, cache) {
			return true
		}
	}
	return false
}

func (n orNode) collect(names map[string]struct{}) {
	for _, child := range n.children {
		child.collect(names)
	}
}

type notNode struct{ child filterNode }

func (n notNode) match(attrs map[string]typedValue, cache *valueCache) bool {
	return !n.child.match(attrs, cache)
}

func (n notNode) collect(names map[string]struct{}) {
	n.child.collect(names)
}

type presentNode struct{ attr string }

func (n presentNode) match(attrs map[string]typedValue, _ *valueCache) bool {
	_, ok := attrs[n.attr]
	return ok
}

func (n presentNode) collect(names map[string]struct{}) {
	names[n.attr] = struct{}{}
}

type compareNode struct {
	attr  string
	op    filterOp
	value string
}

func (n compareNode) match(attrs map[string]typedValue, cache *valueCache) bool {
	actual, ok := attrs[n.attr]
	if !ok {
		return false
	}
	if actual.typ == AttributeStringList {
		for _, item := range splitList(actual.raw) {
			if compareValue(cache, AttributeString, n.op, item, n.value) {
				return true
			}
		}
		return false
	}
	return compareValue(cache, actual.typ, n.op, actual.raw, n.value)
}

func (n compareNode) collect(names map[string]struct{}) {
	names[n.attr] = struct{}{}
}

func compareValue(cache *valueCache, typ AttributeType, op filterOp, actual string, wanted string) bool {
	if op == filterApprox {
		return cache.approx(typ, actual, wanted)
	}
	result, ok := cache.compare(typ, actual, wanted)
	if !ok {
		return false
	}
	switch op {
	case filterGte:
		return result >= 0
	case filterLte:
		return result <= 0
	default:
		return result == 0
	}
}

// substringNode matches "initial*any*final" patterns; parts holds the
// literal segments between stars, with empty first or last segments for a
// leading or trailing star.
type substringNode struct {
	attr  string
	parts []string
}

func (n substringNode) match(attrs map[string]typedValue, _ *valueCache) bool {
	actual, ok := attrs[n.attr]
	if !ok {
		return false
	}
	if actual.typ == AttributeStringList {
		return slices.ContainsFunc(splitList(actual.raw), n.matchString)
	}
	return n.matchString(actual.raw)
}

func (n substringNode) matchString(value string) bool {
	first, last := n.parts[0], n.parts[len(n.parts)-1]
	if !strings.HasPrefix(value, first) {
		return false
	}
	rest := value[len(first):]
	for _, middle := range n.parts[1 : len(n.parts)-1] {
		idx := strings.Index(rest, middle)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(middle):]
	}
	return strings.HasSuffix(rest, last)
}

func (n substringNode) collect(names map[string]struct{}) {
	names[n.attr] = struct{}{}
}

// ----------------------------------------------------------------------------
// Parser
// ----------------------------------------------------------------------------

type filterParser struct {
	input string
	pos   int
}

func (p *filterParser) fail(format string, args ...any) error {
	return fmt.Errorf("position %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *filterParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *filterParser) expect(b byte) error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != b {
		return p.fail("expected %q", b)
	}
	p.pos++
	return nil
}

func (p *filterParser) parseFilter() (filterNode, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, p.fail("unexpected end of filter")
	}
	var node filterNode
	var err error
	switch p.input[p.pos] {
	case '&':
		p.pos++
		var children []filterNode
		children, err = p.parseList()
		node = andNode{children: children}
	case '|':
		p.pos++
		var children []filterNode
		children, err = p.parseList()
		node = orNode{children: children}
	case '!':
		p.pos++
		var child filterNode
		child, err = p.parseFilter()
		node = notNode{child: child}
	default:
		node, err = p.parseItem()
	}
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *filterParser) parseList() ([]filterNode, error) {
	var children []filterNode
	for {
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != '(' {
			break
		}
		child, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if len(children) == 0 {
		return nil, p.fail("empty filter list")
	}
	return children, nil
}

func (p *filterParser) parseItem() (filterNode, error) {
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune("=~<>()", rune(p.input[p.pos])) {
		p.pos++
	}
	attr := strings.ToLower(strings.TrimSpace(p.input[start:p.pos]))
	if attr == "" {
		return nil, p.fail("missing attribute name")
	}
	var op filterOp
	for _, candidate := range filterOps {
		if strings.HasPrefix(p.input[p.pos:], string(candidate)) {
			op = candidate
			break
		}
	}
	if op == "" {
		return nil, p.fail("missing operator after %q", attr)
	}
	p.pos += len(op)
	parts, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if len(parts) == 1 {
		return compareNode{attr: attr, op: op, value: parts[0]}, nil
	}
	if op != filterEq {
		return nil, p.fail("wildcard not allowed with %s", op)
	}
	if len(parts) == 2 && parts[0] == "" && parts[1] == "" {
		return presentNode{attr: attr}, nil
	}
	return substringNode{attr: attr, parts: parts}, nil
}

// parseValue reads up to the closing parenthesis, splitting on unescaped
// stars and resolving backslash escapes.
func (p *filterParser) parseValue() ([]string, error) {
	var parts []string
	var current strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case ')':
			return append(parts, current.String()), nil
		case '(':
			return nil, p.fail("unescaped '(' in value")
		case '*':
			parts = append(parts, current.String())
			current.Reset()
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return nil, p.fail("dangling escape")
			}
			current.WriteByte(p.input[p.pos])
		default:
			current.WriteByte(c)
		}
		p.pos++
	}
	return nil, p.fail("unterminated value")
}
