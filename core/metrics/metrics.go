package metrics

import (
	"time"

	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/stats"
)

// Metric names used for summaries.
const (
	MetricCompetitiveRatio = "competitive_ratio"
	MetricNormalizedRatio  = "normalized_ratio"
)

// TrialEvent is emitted once per completed trial.
type TrialEvent struct {
	RunID string
	Trial model.Trial
	Days  int
	Time  time.Time
}

// TrialSink records completed trials.
type TrialSink interface {
	RecordTrial(ev TrialEvent) error
}

// SummaryEvent carries the aggregate of one metric at the end of a run.
type SummaryEvent struct {
	RunID      string
	Metric     string
	Summary    stats.Summary
	Rejections int
	Time       time.Time
}

// SummaryRecorder is implemented by sinks able to store run summaries.
type SummaryRecorder interface {
	RecordSummary(ev SummaryEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordTrial(TrialEvent) error     { return nil }
func (NopSink) RecordSummary(SummaryEvent) error { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []TrialSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...TrialSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTrial forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordTrial(ev TrialEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrial(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSummary forwards summaries to the sinks that support them.
func (m *MultiSink) RecordSummary(ev SummaryEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SummaryRecorder); ok {
			if err := rec.RecordSummary(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
