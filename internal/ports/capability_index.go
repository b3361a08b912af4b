package ports

import (
	"context"

	"apibaseline/internal/types"
)

// CapabilityIndexPort serves the capabilities and resources a resolve draws
// candidates from.
type CapabilityIndexPort interface {
	FindProviders(ctx context.Context, namespace string) ([]types.Capability, error)
	Resource(ctx context.Context, id string) (types.Resource, bool, error)
}

type RequirementsPort interface {
	LoadRequirements(path string) (types.RequirementsFile, error)
}
