package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/evac/core/metrics"
	"github.com/kilianp07/evac/infra/logger"
)

// InfluxSink writes trials and run summaries to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.TrialSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// TrialPoint builds the line protocol point written for one trial. Undefined
// ratios are omitted from the fields.
func TrialPoint(ev coremetrics.TrialEvent) *write.Point {
	t := ev.Trial
	p := write.NewPointWithMeasurement("trial").
		AddTag("run_id", ev.RunID).
		AddField("trial", t.Index).
		AddField("days", ev.Days).
		AddField("offline_cost", round3(t.OfflineCost)).
		AddField("online_cost", round3(t.OnlineCost)).
		AddField("difference", round3(t.Difference))
	if t.TheoreticalMaxRatio != nil {
		p = p.AddField("theoretical_max_ratio", round3(*t.TheoreticalMaxRatio))
	}
	if t.CompetitiveRatio != nil {
		p = p.AddField(coremetrics.MetricCompetitiveRatio, round3(*t.CompetitiveRatio))
	}
	if t.NormalizedRatio != nil {
		p = p.AddField(coremetrics.MetricNormalizedRatio, round3(*t.NormalizedRatio))
	}
	return p.SetTime(ev.Time)
}

// SummaryPoint builds the line protocol point written for one run aggregate.
func SummaryPoint(ev coremetrics.SummaryEvent) *write.Point {
	s := ev.Summary
	return write.NewPointWithMeasurement("run_summary").
		AddTag("metric", ev.Metric).
		AddTag("run_id", ev.RunID).
		AddField("count", s.Count).
		AddField("mean", round3(s.Mean)).
		AddField("std_dev", round3(s.StdDev)).
		AddField("lower", round3(s.Lower)).
		AddField("upper", round3(s.Upper)).
		AddField("rejections", ev.Rejections).
		SetTime(ev.Time)
}

// RecordTrial writes one trial point.
func (s *InfluxSink) RecordTrial(ev coremetrics.TrialEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, TrialPoint(ev))
}

// RecordSummary writes one run_summary point.
func (s *InfluxSink) RecordSummary(ev coremetrics.SummaryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, SummaryPoint(ev))
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
