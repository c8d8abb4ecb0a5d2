package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-audit-api/internal/infrastructure/metrics"
)

func TestMetrics_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.TransitionApplied("audit", "IN_PROGRESS", "SUBMITTED")
	m.TransitionApplied("audit", "IN_PROGRESS", "SUBMITTED")
	m.TransitionRejected("audit", "close")
	m.ActionsGenerated(3)
	m.ActionsGenerated(0)
	m.ScoreWritten()
	m.ObserveHTTP("GET", "/api/audits/:id", 200, 15*time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "audit_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "una serie por (kind, from, to)")

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				values[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["audit_transitions_total"])
	assert.Equal(t, 1.0, values["audit_transitions_rejected_total"])
	assert.Equal(t, 3.0, values["audit_action_plans_generated_total"])
	assert.Equal(t, 1.0, values["audit_scores_written_total"])
	assert.Equal(t, 1.0, values["http_requests_total"])
}
