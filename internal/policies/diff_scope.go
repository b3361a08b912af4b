package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"apibaseline/internal/types"
)

// DiffScope decides which snapshot elements take part in a comparison.
// Patterns are an exact name, a prefix ending in "*", or "*", optionally
// restricted to one element type with a "type:" prefix ("method:get*").
type DiffScope struct {
	Patterns       []string
	exactByType    map[types.ElementType]map[string]struct{}
	exactAny       map[string]struct{}
	prefixByType   map[types.ElementType][]string
	prefixAny      []string
	wildcardByType map[types.ElementType]struct{}
}

func NewDiffScope(patterns []string) (DiffScope, error) {
	scope := DiffScope{Patterns: patterns}
	if err := scope.compile(); err != nil {
		return DiffScope{}, err
	}
	return scope, nil
}

// Ignored reports whether an element is excluded from comparison.
func (s DiffScope) Ignored(elementType types.ElementType, name string) bool {
	if _, ok := s.wildcardByType[elementType]; ok {
		return true
	}
	if _, ok := s.exactAny[name]; ok {
		return true
	}
	if _, ok := s.exactByType[elementType][name]; ok {
		return true
	}
	for _, prefix := range s.prefixAny {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	for _, prefix := range s.prefixByType[elementType] {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Prune returns a copy of root without ignored descendants. The root itself
// is always kept.
func (s DiffScope) Prune(root types.Element) types.Element {
	if len(s.Patterns) == 0 || len(root.Children) == 0 {
		return root
	}
	pruned := root
	pruned.Children = make([]types.Element, 0, len(root.Children))
	for _, child := range root.Children {
		if s.Ignored(child.Type, child.Name) {
			continue
		}
		pruned.Children = append(pruned.Children, s.Prune(child))
	}
	return pruned
}

type scopePattern struct {
	elementType *types.ElementType
	kind        patternKind
	name        string
}

type patternKind int

const (
	patternExact patternKind = iota
	patternPrefix
	patternWildcard
	patternInvalid
)

func (s *DiffScope) compile() error {
	s.exactByType = map[types.ElementType]map[string]struct{}{}
	s.exactAny = map[string]struct{}{}
	s.prefixByType = map[types.ElementType][]string{}
	s.prefixAny = nil
	s.wildcardByType = map[types.ElementType]struct{}{}
	for _, raw := range s.Patterns {
		parsed, ok := parseScopePattern(raw)
		if !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid diff ignore pattern: %q", raw))
		}
		switch parsed.kind {
		case patternWildcard:
			if parsed.elementType == nil {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg("diff ignore pattern \"*\" would ignore every element")
			}
			s.wildcardByType[*parsed.elementType] = struct{}{}
		case patternExact:
			if parsed.elementType == nil {
				s.exactAny[parsed.name] = struct{}{}
				continue
			}
			if s.exactByType[*parsed.elementType] == nil {
				s.exactByType[*parsed.elementType] = map[string]struct{}{}
			}
			s.exactByType[*parsed.elementType][parsed.name] = struct{}{}
		case patternPrefix:
			if parsed.elementType == nil {
				s.prefixAny = append(s.prefixAny, parsed.name)
				continue
			}
			s.prefixByType[*parsed.elementType] = append(s.prefixByType[*parsed.elementType], parsed.name)
		}
	}
	return nil
}

func parseScopePattern(pattern string) (scopePattern, bool) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return scopePattern{kind: patternInvalid}, false
	}
	if typeToken, rest, found := strings.Cut(trimmed, ":"); found {
		elementType := types.ElementType(strings.ToLower(strings.TrimSpace(typeToken)))
		if elementType.Known() {
			name, kind := parseNamePattern(rest)
			if kind == patternInvalid {
				return scopePattern{kind: patternInvalid}, false
			}
			return scopePattern{elementType: &elementType, kind: kind, name: name}, true
		}
	}
	name, kind := parseNamePattern(trimmed)
	if kind == patternInvalid {
		return scopePattern{kind: patternInvalid}, false
	}
	return scopePattern{kind: kind, name: name}, true
}

func parseNamePattern(value string) (string, patternKind) {
	pattern := strings.TrimSpace(value)
	if pattern == "" {
		return "", patternInvalid
	}
	if pattern == "*" {
		return "", patternWildcard
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.TrimSuffix(pattern, "*"), patternPrefix
	}
	return pattern, patternExact
}
