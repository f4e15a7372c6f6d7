package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/evac/core/metrics"
)

// RatioBuckets spans competitive ratios from optimal up to a tenfold excess.
var RatioBuckets = []float64{1, 1.05, 1.1, 1.25, 1.5, 2, 3, 5, 10}

// PromSink records trial outcomes in Prometheus metrics.
type PromSink struct {
	trials     *prometheus.CounterVec
	ratios     *prometheus.HistogramVec
	excess     prometheus.Histogram
	summary    *prometheus.GaugeVec
	rejections prometheus.Gauge
}

// NewPromSink registers trial metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	trials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evac_trials_total",
		Help: "Evaluated trials by whether the online strategy matched the optimum",
	}, []string{"outcome"})
	ratios := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evac_trial_ratio",
		Help:    "Per-trial ratios between online and offline strategies",
		Buckets: RatioBuckets,
	}, []string{"metric"})
	excess := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "evac_trial_excess_cost",
		Help:    "Online cost minus offline cost per trial",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
	summary := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "evac_run_summary",
		Help: "Aggregate of a ratio over the last completed run",
	}, []string{"metric", "stat"})
	rejections := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "evac_generator_rejections",
		Help: "Infeasible instances discarded during the last run",
	})

	var err error
	if trials, err = register(reg, trials); err != nil {
		return nil, err
	}
	if ratios, err = register(reg, ratios); err != nil {
		return nil, err
	}
	if excess, err = register(reg, excess); err != nil {
		return nil, err
	}
	if summary, err = register(reg, summary); err != nil {
		return nil, err
	}
	if rejections, err = register(reg, rejections); err != nil {
		return nil, err
	}
	return &PromSink{trials: trials, ratios: ratios, excess: excess, summary: summary, rejections: rejections}, nil
}

// register adds c to reg, reusing the collector already registered under the
// same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordTrial counts the trial and observes its defined ratios.
func (s *PromSink) RecordTrial(ev coremetrics.TrialEvent) error {
	t := ev.Trial
	outcome := "worse"
	if t.Difference == 0 {
		outcome = "optimal"
	}
	s.trials.WithLabelValues(outcome).Inc()
	s.excess.Observe(t.Difference)
	if t.CompetitiveRatio != nil {
		s.ratios.WithLabelValues(coremetrics.MetricCompetitiveRatio).Observe(*t.CompetitiveRatio)
	}
	if t.NormalizedRatio != nil {
		s.ratios.WithLabelValues(coremetrics.MetricNormalizedRatio).Observe(*t.NormalizedRatio)
	}
	return nil
}

// RecordSummary exposes the run aggregate of one metric.
func (s *PromSink) RecordSummary(ev coremetrics.SummaryEvent) error {
	sum := ev.Summary
	s.summary.WithLabelValues(ev.Metric, "count").Set(float64(sum.Count))
	s.summary.WithLabelValues(ev.Metric, "mean").Set(sum.Mean)
	s.summary.WithLabelValues(ev.Metric, "std_dev").Set(sum.StdDev)
	s.summary.WithLabelValues(ev.Metric, "lower").Set(sum.Lower)
	s.summary.WithLabelValues(ev.Metric, "upper").Set(sum.Upper)
	s.rejections.Set(float64(ev.Rejections))
	return nil
}
