package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"apibaseline/internal/core"
	"apibaseline/internal/ports"
	"apibaseline/internal/types"
	"apibaseline/internal/version"
)

const (
	DiffReportFile       = "diff.yaml"
	BaselineReportFile   = "baseline.report"
	ResolutionReportFile = "resolution.report"
	AptLockFile          = "apt.lock"
	PipLockFile          = "pip.lock"
)

// Row kinds of the tab separated report files.
const (
	rowBundle      = "bundle"
	rowPackage     = "package"
	rowResource    = "resource"
	rowWire        = "wire"
	rowUnsatisfied = "unsatisfied"
	rowVeto        = "veto"
	rowRecord      = "record"
)

type ReportFileAdapter struct {
	Dir string
}

func NewReportFileAdapter(dir string) ReportFileAdapter {
	return ReportFileAdapter{Dir: dir}
}

func (a ReportFileAdapter) WriteDiff(diff types.Diff) error {
	path, err := a.ensurePath(DiffReportFile)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(diff)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode diff").
			WithCause(err)
	}
	return a.write(path, data)
}

// WriteBaselineReport writes one tab separated line per row: kind, name,
// type, delta, older, newer, suggested, mismatch, reason, warning.
func (a ReportFileAdapter) WriteBaselineReport(report types.BaselineReport) error {
	path, err := a.ensurePath(BaselineReportFile)
	if err != nil {
		return err
	}
	packages := append([]types.BaselineInfo(nil), report.Packages...)
	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
	lines := []string{baselineLine(rowBundle, report.Bundle)}
	for _, pkg := range packages {
		lines = append(lines, baselineLine(rowPackage, pkg))
	}
	return a.write(path, []byte(strings.Join(lines, "\n")))
}

// WriteResolutionReport writes resources, wires, unsatisfied requirements
// and filter vetoes in resolution order, followed by the directive records
// sorted the way they are reviewed.
func (a ReportFileAdapter) WriteResolutionReport(report types.ResolutionReport) error {
	path, err := a.ensurePath(ResolutionReportFile)
	if err != nil {
		return err
	}
	var lines []string
	for _, id := range report.Resources {
		lines = append(lines, joinRow(rowResource, id))
	}
	for _, wire := range report.Wires {
		lines = append(lines, joinRow(rowWire,
			wire.Requirement.Resource,
			wire.Requirement.Namespace,
			wire.Requirement.Filter,
			wire.Capability.Resource,
			wire.Capability.Namespace,
			encodeAttributes(wire.Capability.Attributes),
		))
	}
	for _, record := range report.Unsatisfied {
		lines = append(lines, joinRow(rowUnsatisfied,
			record.Requirement.Resource,
			record.Requirement.Namespace,
			record.Requirement.Filter,
			strconv.FormatBool(record.Optional),
			strconv.Itoa(record.Candidates),
		))
	}
	for _, veto := range report.Vetoes {
		lines = append(lines, joinRow(rowVeto, veto.Filter, strconv.Itoa(veto.Removed)))
	}
	ordered := append([]types.ResolutionRecord(nil), report.Records...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Dependency != ordered[j].Dependency {
			return ordered[i].Dependency < ordered[j].Dependency
		}
		if ordered[i].Action != ordered[j].Action {
			return ordered[i].Action < ordered[j].Action
		}
		if ordered[i].Value != ordered[j].Value {
			return ordered[i].Value < ordered[j].Value
		}
		if ordered[i].Owner != ordered[j].Owner {
			return ordered[i].Owner < ordered[j].Owner
		}
		return ordered[i].Reason < ordered[j].Reason
	})
	for _, record := range ordered {
		lines = append(lines, joinRow(rowRecord,
			record.Dependency,
			string(record.Action),
			record.Value,
			record.Reason,
			record.Owner,
			record.ExpiresAt,
		))
	}
	return a.write(path, []byte(strings.Join(lines, "\n")))
}

// WriteLockfiles writes apt.lock (name=version) and pip.lock
// (name==version) for wires into the apt and pip namespaces. A lock file
// is only written when it has entries.
func (a ReportFileAdapter) WriteLockfiles(wires []types.Wire) error {
	var aptLines []string
	var pipLines []string
	for _, wire := range wires {
		name := core.CapabilityName(wire.Capability)
		v := versionAttribute(wire.Capability.Attributes)
		switch wire.Capability.Namespace {
		case types.NamespaceApt:
			aptLines = append(aptLines, fmt.Sprintf("%s=%s", name, v))
		case types.NamespacePip:
			pipLines = append(pipLines, fmt.Sprintf("%s==%s", name, v))
		}
	}
	for filename, lines := range map[string][]string{AptLockFile: aptLines, PipLockFile: pipLines} {
		if len(lines) == 0 {
			continue
		}
		sort.Strings(lines)
		path, err := a.ensurePath(filename)
		if err != nil {
			return err
		}
		if err := a.write(path, []byte(strings.Join(uniqueStrings(lines), "\n"))); err != nil {
			return err
		}
	}
	return nil
}

func (a ReportFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

func (a ReportFileAdapter) write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", filepath.Base(path))).
			WithCause(err)
	}
	return nil
}

func baselineLine(kind string, info types.BaselineInfo) string {
	return joinRow(kind,
		info.Name,
		string(info.Type),
		string(info.Delta),
		formatVersion(info.OlderVersion),
		formatVersion(info.NewerVersion),
		formatVersion(info.SuggestedVersion),
		strconv.FormatBool(info.Mismatch),
		info.Reason,
		info.Warning,
	)
}

func formatVersion(v *version.Version) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func joinRow(kind string, fields ...string) string {
	cleaned := make([]string, 0, len(fields)+1)
	cleaned = append(cleaned, kind)
	for _, field := range fields {
		cleaned = append(cleaned, strings.NewReplacer("\t", " ", "\n", " ").Replace(field))
	}
	return strings.Join(cleaned, "\t")
}

// encodeAttributes renders attributes as sorted "key=value" pairs joined
// by ";".
func encodeAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+attrs[key])
	}
	return strings.Join(pairs, ";")
}

func versionAttribute(attrs map[string]string) string {
	for key, value := range attrs {
		if name, _ := core.SplitAttributeKey(key); name == types.AttributeVersion {
			return value
		}
	}
	return ""
}

var _ ports.ReportPort = ReportFileAdapter{}
