package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"apibaseline/internal/shared"
	"apibaseline/internal/types"
	"apibaseline/internal/version"
)

// ValidateSnapshot rejects a snapshot the differ cannot compare: elements
// without a known type or a name, duplicate sibling identities and
// unparseable versions. It runs before any tree is built.
func ValidateSnapshot(ctx context.Context, root types.Element) error {
	if err := validateElement(root, ""); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().
		Str("type", string(root.Type)).
		Str("name", root.Name).
		Msg("snapshot validated")
	return nil
}

func validateElement(element types.Element, parent string) error {
	location := fmt.Sprintf("%s:%s", element.Type, element.Name)
	if parent != "" {
		location = parent + "/" + location
	}
	if strings.TrimSpace(string(element.Type)) == "" {
		return shared.InvalidComparison("element %s has no type", location)
	}
	if !element.Type.Known() {
		return shared.InvalidComparison("element %s has unknown type %q", location, element.Type)
	}
	if strings.TrimSpace(element.Name) == "" {
		return shared.InvalidComparison("element %s has no name", location)
	}
	if element.Version != "" {
		if _, err := version.Parse(element.Version); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s at %s", shared.ErrorMessage(err), location)).
				WithCause(err)
		}
	}
	seen := make(map[types.Identity]struct{}, len(element.Children))
	for _, child := range element.Children {
		id := child.Identity()
		if _, dup := seen[id]; dup {
			return shared.InvalidComparison("duplicate element %s:%s under %s", child.Type, child.Name, location)
		}
		seen[id] = struct{}{}
		if err := validateElement(child, location); err != nil {
			return err
		}
	}
	return nil
}
