package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/evac/core/factory"
	coremetrics "github.com/kilianp07/evac/core/metrics"
)

// init registers the built-in sinks backed by external systems.
func init() {
	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.TrialSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.TrialSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
