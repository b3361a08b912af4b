package ports

import "apibaseline/internal/types"

// SnapshotPort loads an API snapshot produced by an external analyzer.
type SnapshotPort interface {
	LoadSnapshot(path string) (types.Element, error)
}
