package ports

import "apibaseline/internal/types"

type MetricsPort interface {
	ObserveDiff(diff types.Diff)
	ObserveBaseline(report types.BaselineReport)
	ObserveResolution(report types.ResolutionReport)
	Flush() error
}
