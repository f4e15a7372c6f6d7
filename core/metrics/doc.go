// Package metrics defines the sinks that observe a harness run. Each
// completed trial is offered to RecordTrial; sinks that also implement
// SummaryRecorder receive the per-metric aggregates once the run ends.
// Several configured sinks are combined with NewMultiSink.
package metrics
