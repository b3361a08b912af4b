package adapters

import (
	"apibaseline/internal/ports"
	"apibaseline/internal/types"
)

type RequirementsFileAdapter struct{}

func NewRequirementsFileAdapter() RequirementsFileAdapter {
	return RequirementsFileAdapter{}
}

func (a RequirementsFileAdapter) LoadRequirements(path string) (types.RequirementsFile, error) {
	var file types.RequirementsFile
	if err := readDocument(path, "requirements", &file); err != nil {
		return types.RequirementsFile{}, err
	}
	return file, nil
}

var _ ports.RequirementsPort = RequirementsFileAdapter{}
