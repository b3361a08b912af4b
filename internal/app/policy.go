package app

import (
	"strings"

	"apibaseline/internal/types"
)

// loadPolicy reads the policy document, or returns the zero policy when no
// path is given.
func (s Service) loadPolicy(path string) (types.Policy, error) {
	if strings.TrimSpace(path) == "" {
		return types.Policy{}, nil
	}
	return s.Policies.LoadPolicy(path)
}
