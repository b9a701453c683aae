package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/marigold/pkg/metrics"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/search", "200"))
	metrics.RecordHTTPRequest("GET", "/search", 200, 3*time.Millisecond)
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/search", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordSkippedSearch(t *testing.T) {
	before := testutil.ToFloat64(metrics.SearchSkippedTotal.WithLabelValues("matchmaking"))
	metrics.RecordSkippedSearch("matchmaking")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SearchSkippedTotal.WithLabelValues("matchmaking")))
}

func TestRecordQuery_LabelsStatus(t *testing.T) {
	metrics.RecordQuery("relationships", nil, time.Millisecond)
	metrics.RecordQuery("relationships", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(metrics.DatabaseQueryDuration, "marigold_database_query_duration_seconds"))
}
