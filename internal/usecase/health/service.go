package health

import "context"

// Check names reported in Report.Checks.
const (
	CheckDataset = "dataset"
	CheckCatalog = "catalog"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates readiness checks.
type Service struct {
	dataset DatasetPinger
	catalog CatalogReader
}

// New creates a Service. catalog can be nil.
func New(dataset DatasetPinger, catalog CatalogReader) *Service {
	return &Service{dataset: dataset, catalog: catalog}
}

// Check runs readiness checks against the dataset source and catalog.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.dataset.Ping(ctx); err != nil {
		checks[CheckDataset] = CheckError
	} else {
		checks[CheckDataset] = CheckOK
	}

	// an empty catalog serves nothing but 404s
	if s.catalog != nil {
		if len(s.catalog.Databases()) == 0 {
			checks[CheckCatalog] = CheckError
		} else {
			checks[CheckCatalog] = CheckOK
		}
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
