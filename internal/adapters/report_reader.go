package adapters

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"apibaseline/internal/ports"
	"apibaseline/internal/types"
	"apibaseline/internal/version"
)

type ReportReaderAdapter struct{}

func NewReportReaderAdapter() ReportReaderAdapter {
	return ReportReaderAdapter{}
}

func (a ReportReaderAdapter) ReadDiff(path string) (types.Diff, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.Diff{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("diff report not found").
			WithCause(err)
	}
	var diff types.Diff
	if err := yaml.Unmarshal(content, &diff); err != nil {
		return types.Diff{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid diff report format").
			WithCause(err)
	}
	return diff, nil
}

func (a ReportReaderAdapter) ReadBaselineReport(path string) (types.BaselineReport, error) {
	rows, err := readRows(path, BaselineReportFile)
	if err != nil {
		return types.BaselineReport{}, err
	}
	report := types.BaselineReport{}
	sawBundle := false
	for _, row := range rows {
		if len(row) != 10 {
			return types.BaselineReport{}, invalidReport(BaselineReportFile)
		}
		info, err := parseBaselineRow(row[1:])
		if err != nil {
			return types.BaselineReport{}, err
		}
		switch row[0] {
		case rowBundle:
			report.Bundle = info
			sawBundle = true
		case rowPackage:
			report.Packages = append(report.Packages, info)
		default:
			return types.BaselineReport{}, invalidReport(BaselineReportFile)
		}
	}
	if !sawBundle {
		return types.BaselineReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("baseline.report missing bundle row")
	}
	return report, nil
}

func (a ReportReaderAdapter) ReadResolutionReport(path string) (types.ResolutionReport, error) {
	rows, err := readRows(path, ResolutionReportFile)
	if err != nil {
		return types.ResolutionReport{}, err
	}
	report := types.ResolutionReport{}
	for _, row := range rows {
		switch {
		case row[0] == rowResource && len(row) == 2:
			report.Resources = append(report.Resources, row[1])
		case row[0] == rowWire && len(row) == 7:
			report.Wires = append(report.Wires, types.Wire{
				Requirement: types.Requirement{Resource: row[1], Namespace: row[2], Filter: row[3]},
				Capability:  types.Capability{Resource: row[4], Namespace: row[5], Attributes: decodeAttributes(row[6])},
			})
		case row[0] == rowUnsatisfied && len(row) == 6:
			candidates, err := strconv.Atoi(row[5])
			if err != nil {
				return types.ResolutionReport{}, invalidReport(ResolutionReportFile)
			}
			report.Unsatisfied = append(report.Unsatisfied, types.UnsatisfiedRecord{
				Requirement: types.Requirement{Resource: row[1], Namespace: row[2], Filter: row[3]},
				Optional:    row[4] == "true",
				Candidates:  candidates,
			})
		case row[0] == rowVeto && len(row) == 3:
			removed, err := strconv.Atoi(row[2])
			if err != nil {
				return types.ResolutionReport{}, invalidReport(ResolutionReportFile)
			}
			report.Vetoes = append(report.Vetoes, types.FilterVeto{Filter: row[1], Removed: removed})
		case row[0] == rowRecord && len(row) >= 6:
			record := types.ResolutionRecord{
				Dependency: row[1],
				Action:     types.ResolutionAction(row[2]),
				Value:      row[3],
				Reason:     row[4],
				Owner:      row[5],
			}
			if len(row) > 6 {
				record.ExpiresAt = row[6]
			}
			report.Records = append(report.Records, record)
		default:
			return types.ResolutionReport{}, invalidReport(ResolutionReportFile)
		}
	}
	return report, nil
}

func readRows(path string, name string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%s not found", name)).
			WithCause(err)
	}
	var rows [][]string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	return rows, nil
}

func parseBaselineRow(fields []string) (types.BaselineInfo, error) {
	info := types.BaselineInfo{
		Name:     fields[0],
		Type:     types.ElementType(fields[1]),
		Mismatch: fields[6] == "true",
		Reason:   fields[7],
		Warning:  fields[8],
	}
	delta, err := types.ParseDelta(fields[2])
	if err != nil {
		return types.BaselineInfo{}, err
	}
	info.Delta = delta
	for i, target := range []**version.Version{&info.OlderVersion, &info.NewerVersion, &info.SuggestedVersion} {
		raw := fields[3+i]
		if raw == "" {
			continue
		}
		v, err := version.Parse(raw)
		if err != nil {
			return types.BaselineInfo{}, err
		}
		*target = &v
	}
	return info, nil
}

func decodeAttributes(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	attrs := map[string]string{}
	for _, pair := range strings.Split(raw, ";") {
		key, value, _ := strings.Cut(pair, "=")
		attrs[key] = value
	}
	return attrs
}

func invalidReport(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid %s format", name))
}

var _ ports.ReportReaderPort = ReportReaderAdapter{}
