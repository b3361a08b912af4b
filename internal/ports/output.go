package ports

import "apibaseline/internal/types"

type ReportPort interface {
	WriteDiff(diff types.Diff) error
	WriteBaselineReport(report types.BaselineReport) error
	WriteResolutionReport(report types.ResolutionReport) error
	WriteLockfiles(wires []types.Wire) error
}
