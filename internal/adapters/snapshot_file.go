package adapters

import (
	"apibaseline/internal/ports"
	"apibaseline/internal/types"
)

// SnapshotFileAdapter reads API snapshots written by an external analyzer
// as YAML, JSON or TOML element trees.
type SnapshotFileAdapter struct{}

func NewSnapshotFileAdapter() SnapshotFileAdapter {
	return SnapshotFileAdapter{}
}

func (a SnapshotFileAdapter) LoadSnapshot(path string) (types.Element, error) {
	var root types.Element
	if err := readDocument(path, "snapshot", &root); err != nil {
		return types.Element{}, err
	}
	return root, nil
}

var _ ports.SnapshotPort = SnapshotFileAdapter{}
