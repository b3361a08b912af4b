package ports

import "apibaseline/internal/types"

type PolicyPort interface {
	LoadPolicy(path string) (types.Policy, error)
}
