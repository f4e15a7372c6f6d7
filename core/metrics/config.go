package metrics

import "github.com/kilianp07/evac/core/factory"

// Config lists the sinks to build for a run.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort, when set, serves the default registry on /metrics
	// for the lifetime of the run.
	PrometheusPort string `json:"prometheus_port"`
}
