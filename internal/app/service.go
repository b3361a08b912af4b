package app

import (
	"time"

	"apibaseline/internal/adapters"
	"apibaseline/internal/ports"
)

type Service struct {
	Snapshots    ports.SnapshotPort
	Policies     ports.PolicyPort
	Requirements ports.RequirementsPort
	ReportReader ports.ReportReaderPort
	Metrics      ports.MetricsPort
	Index        func(paths ...string) ports.CapabilityIndexPort
	Reports      func(dir string) ports.ReportPort
	Clock        func() time.Time
}

func NewService() Service {
	return Service{
		Snapshots:    adapters.NewSnapshotFileAdapter(),
		Policies:     adapters.NewPolicyFileAdapter(),
		Requirements: adapters.NewRequirementsFileAdapter(),
		ReportReader: adapters.NewReportReaderAdapter(),
		Metrics:      adapters.NewMetricsTextfileAdapter(""),
		Index: func(paths ...string) ports.CapabilityIndexPort {
			return adapters.NewCapabilityIndexFileAdapter(paths...)
		},
		Reports: func(dir string) ports.ReportPort {
			return adapters.NewReportFileAdapter(dir)
		},
		Clock: time.Now,
	}
}

// WithMetricsFile returns a copy of the service that records run metrics
// into a node exporter textfile at path.
func (s Service) WithMetricsFile(path string) Service {
	s.Metrics = adapters.NewMetricsTextfileAdapter(path)
	return s
}
