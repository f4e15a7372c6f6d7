package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evac/core/factory"
	coremetrics "github.com/kilianp07/evac/core/metrics"
	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/stats"
)

func TestPromSink_RecordTrial(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordTrial(coremetrics.TrialEvent{Trial: model.Trial{
		OfflineCost: 12, OnlineCost: 40, Difference: 28,
		CompetitiveRatio: ptr(40.0 / 12.0), NormalizedRatio: ptr(0.58),
	}}))
	require.NoError(t, sink.RecordTrial(coremetrics.TrialEvent{Trial: model.Trial{
		OfflineCost: 10, OnlineCost: 10, CompetitiveRatio: ptr(1),
	}}))

	expected := `
# HELP evac_trials_total Evaluated trials by whether the online strategy matched the optimum
# TYPE evac_trials_total counter
evac_trials_total{outcome="optimal"} 1
evac_trials_total{outcome="worse"} 1
`
	if err := testutil.CollectAndCompare(sink.trials, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	assert.Equal(t, 2, testutil.CollectAndCount(sink.ratios))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.excess))
}

func TestPromSink_RecordSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordSummary(coremetrics.SummaryEvent{
		Metric:     coremetrics.MetricCompetitiveRatio,
		Summary:    stats.Summary{Count: 10, Mean: 1.5, StdDev: 0.25, Lower: 1.01, Upper: 1.99},
		Rejections: 3,
	}))

	assert.Equal(t, 1.5, testutil.ToFloat64(sink.summary.WithLabelValues(coremetrics.MetricCompetitiveRatio, "mean")))
	assert.Equal(t, 1.01, testutil.ToFloat64(sink.summary.WithLabelValues(coremetrics.MetricCompetitiveRatio, "lower")))
	assert.Equal(t, 10.0, testutil.ToFloat64(sink.summary.WithLabelValues(coremetrics.MetricCompetitiveRatio, "count")))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.rejections))
}

func TestNewPromSinkWithRegistry_ReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, second.RecordTrial(coremetrics.TrialEvent{Trial: model.Trial{Difference: 1}}))
	assert.Equal(t, 1.0, testutil.ToFloat64(first.trials.WithLabelValues("worse")))
}

func TestSinkRegistry_Prometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	orig := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = reg
	defer func() { prometheus.DefaultRegisterer = orig }()

	sink, err := coremetrics.NewSink([]factory.ModuleConfig{{Type: "prometheus"}})
	require.NoError(t, err)
	_, ok := sink.(*PromSink)
	assert.True(t, ok)
}
