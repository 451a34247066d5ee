package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/fyrsmithlabs/cectoolkit/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unmatched", normalizePath(""))
	assert.Equal(t, "/api/v1/phone-issue", normalizePath("/api/v1/phone-issue"))
}

func TestNewHTTPMetrics_NilArguments(t *testing.T) {
	m := NewHTTPMetrics(nil, nil)
	require.NotNil(t, m)
	assert.NotNil(t, m.requestsTotal)
}

func TestMetricsMiddleware_RecordsRequests(t *testing.T) {
	tt := telemetry.NewTestTelemetry()
	s, _ := newTestServer(t, &Config{Host: "127.0.0.1", Port: 9393, Meter: tt.Meter("http-test")})

	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
	require.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/v1/phone-issue", `{}`).Code)

	names := tt.MetricNames(context.Background())
	assert.Contains(t, names, "cectoolkit.http.requests_total")
	assert.Contains(t, names, "cectoolkit.http.request_duration_seconds")
	assert.Contains(t, names, "cectoolkit.http.response_size_bytes")
	assert.Contains(t, names, "cectoolkit.http.active_requests")

	rm, err := tt.Collect(context.Background())
	require.NoError(t, err)
	counts := requestCounts(t, rm)
	assert.Equal(t, int64(1), counts["/health 200"])
	assert.Equal(t, int64(1), counts["/api/v1/phone-issue 400"])
}

// requestCounts flattens the request counter into "endpoint status" keys.
func requestCounts(t *testing.T, rm metricdata.ResourceMetrics) map[string]int64 {
	t.Helper()
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "cectoolkit.http.requests_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				endpoint, _ := dp.Attributes.Value(attribute.Key("endpoint"))
				status, _ := dp.Attributes.Value(attribute.Key("status"))
				out[endpoint.AsString()+" "+status.Emit()] += dp.Value
			}
		}
	}
	return out
}
