package ports

import "apibaseline/internal/types"

type ReportReaderPort interface {
	ReadDiff(path string) (types.Diff, error)
	ReadBaselineReport(path string) (types.BaselineReport, error)
	ReadResolutionReport(path string) (types.ResolutionReport, error)
}
