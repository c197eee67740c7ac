package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()

	SearchRequestsTotal.WithLabelValues("tables", "ok").Inc()
	if got := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("tables", "ok")); got < 1 {
		t.Errorf("expected search_requests_total >= 1, got %f", got)
	}

	DatasetTables.Set(3)
	if got := testutil.ToFloat64(DatasetTables); got != 3 {
		t.Errorf("expected dataset_tables 3, got %f", got)
	}
}
