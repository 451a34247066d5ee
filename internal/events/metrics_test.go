package events

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	ctx := context.Background()

	ok := NewEvent("escalation")
	ok.Success = true
	ok.Missing = 3
	ok.ReasonCode = "admin_privileges"
	ok.Duration = 2 * time.Millisecond
	require.NoError(t, m.Handle(ctx, ok))
	require.NoError(t, m.Handle(ctx, ok))

	bad := NewEvent("phone_issue")
	bad.Errors = 1
	require.NoError(t, m.Handle(ctx, bad))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.processed.WithLabelValues("escalation", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.processed.WithLabelValues("phone_issue", "failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reasons.WithLabelValues("admin_privileges")))

	n, err := testutil.GatherAndCount(reg, "cectoolkit_ticket_missing_fields")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only successful escalation tickets observed")
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
