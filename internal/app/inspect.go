package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"apibaseline/internal/adapters"
)

// Inspect reads back the reports found in an output directory. It fails
// when the directory holds none of them.
func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	result := InspectResult{}
	found := false
	if path := filepath.Join(outputDir, adapters.DiffReportFile); exists(path) {
		diff, err := s.ReportReader.ReadDiff(path)
		if err != nil {
			return InspectResult{}, err
		}
		result.Diff = &diff
		found = true
	}
	if path := filepath.Join(outputDir, adapters.BaselineReportFile); exists(path) {
		report, err := s.ReportReader.ReadBaselineReport(path)
		if err != nil {
			return InspectResult{}, err
		}
		result.Baseline = &report
		found = true
	}
	if path := filepath.Join(outputDir, adapters.ResolutionReportFile); exists(path) {
		report, err := s.ReportReader.ReadResolutionReport(path)
		if err != nil {
			return InspectResult{}, err
		}
		result.Resolution = &report
		found = true
	}
	if !found {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no reports found in " + outputDir)
	}
	return result, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
