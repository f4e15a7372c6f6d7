package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kilianp07/evac/core/generator"
	"github.com/kilianp07/evac/core/model"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `harness:
  population: {lower: 50, upper: 200}
  day_count: {lower: 3, upper: 7}
  seats: {lower: 10, upper: 40}
  seat_price: {lower: 5, upper: 80}
  hotel_price: {lower: 1, upper: 20}
  distribution: normal
  seed: 42
  trials: 250
  workers: 4
logging:
  backend: sqlite
  path: run.db
metrics:
  prometheus_port: ":9100"
  sinks:
    - type: "nop"
export:
  csv_path: trials.csv
  json_path: report.json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"population", cfg.Harness.Population, model.Range{Lower: 50, Upper: 200}},
		{"day_count", cfg.Harness.DayCount, model.Range{Lower: 3, Upper: 7}},
		{"seats", cfg.Harness.Seats, model.Range{Lower: 10, Upper: 40}},
		{"seat_price", cfg.Harness.SeatPrice, model.Range{Lower: 5, Upper: 80}},
		{"hotel_price", cfg.Harness.HotelPrice, model.Range{Lower: 1, Upper: 20}},
		{"distribution", cfg.Harness.Distribution, "normal"},
		{"seed", cfg.Harness.Seed, uint64(42)},
		{"trials", cfg.Harness.Trials, 250},
		{"workers", cfg.Harness.Workers, 4},
		{"max_rejections default", cfg.Harness.MaxRejections, generator.DefaultMaxRejections},
		{"logging.backend", cfg.Logging.Backend, BackendSQLite},
		{"logging.path", cfg.Logging.Path, "run.db"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"prometheus_port", cfg.Metrics.PrometheusPort, ":9100"},
		{"export.csv_path", cfg.Export.CSVPath, "trials.csv"},
		{"export.json_path", cfg.Export.JSONPath, "report.json"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	gen := cfg.Harness.GeneratorConfig()
	if gen.Distribution != model.DistributionNormal || gen.Seed != 42 {
		t.Errorf("generator config: %+v", gen)
	}
	if rc := cfg.Harness.RunnerConfig(); rc.Trials != 250 || rc.Workers != 4 {
		t.Errorf("runner config: %+v", rc)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"harness": {"seed": 7}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Harness.Trials != 1000 || cfg.Harness.Distribution != "uniform" {
		t.Errorf("harness defaults: %+v", cfg.Harness)
	}
	if cfg.Harness.Population != (model.Range{Lower: 10, Upper: 100}) {
		t.Errorf("population default: %+v", cfg.Harness.Population)
	}
	if cfg.Logging.Backend != BackendJSONL || cfg.Logging.Path != "trials.jsonl" {
		t.Errorf("logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadKeepsExplicitZeroRanges(t *testing.T) {
	path := writeConfig(t, "config.yaml", `harness:
  seat_price: {lower: 0, upper: 0}
  hotel_price: {lower: 0, upper: 0}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Harness.SeatPrice != (model.Range{}) {
		t.Errorf("seat_price = %+v, want {0 0}", cfg.Harness.SeatPrice)
	}
	if cfg.Harness.HotelPrice != (model.Range{}) {
		t.Errorf("hotel_price = %+v, want {0 0}", cfg.Harness.HotelPrice)
	}
	if cfg.Harness.Population != (model.Range{Lower: 10, Upper: 100}) {
		t.Errorf("population default: %+v", cfg.Harness.Population)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "harness:\n  trials: 10\n")
	t.Setenv("EVAC_HARNESS__TRIALS", "25")
	t.Setenv("EVAC_HARNESS__DAY_COUNT__UPPER", "12")
	t.Setenv("EVAC_HARNESS__DAY_COUNT__LOWER", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Harness.Trials != 25 {
		t.Errorf("trials = %d, want 25", cfg.Harness.Trials)
	}
	if cfg.Harness.DayCount != (model.Range{Lower: 2, Upper: 12}) {
		t.Errorf("day_count = %+v", cfg.Harness.DayCount)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"distribution": "harness:\n  distribution: poisson\n",
		"range":        "harness:\n  seats: {lower: 9, upper: 3}\n",
		"trials":       "harness:\n  trials: -1\n",
		"backend":      "logging:\n  backend: redis\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", data))
			if !errors.Is(err, model.ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load(writeConfig(t, "config.toml", "")); !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{BackendJSONL, BackendSQLite} {
		c := LoggingConfig{Backend: backend, Path: filepath.Join(dir, "trials."+backend)}
		s, err := c.OpenStore()
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		if s == nil {
			t.Fatalf("%s: nil store", backend)
		}
		_ = s.Close()
	}
	s, err := LoggingConfig{Backend: BackendNone}.OpenStore()
	if err != nil || s != nil {
		t.Fatalf("none backend: %v %v", s, err)
	}
}
