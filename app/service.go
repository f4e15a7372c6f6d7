package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/kilianp07/evac/config"
	"github.com/kilianp07/evac/core/generator"
	"github.com/kilianp07/evac/core/harness"
	coremetrics "github.com/kilianp07/evac/core/metrics"
	"github.com/kilianp07/evac/core/monitoring"
	"github.com/kilianp07/evac/core/trials"
	"github.com/kilianp07/evac/infra/logger"
	"github.com/kilianp07/evac/infra/metrics"
	"github.com/kilianp07/evac/internal/eventbus"
	"github.com/kilianp07/evac/pkg/export"
)

// Service wires the generator, runner, sinks and trial store of one run.
type Service struct {
	Runner   *harness.Runner
	cfg      *config.Config
	sink     coremetrics.TrialSink
	store    trials.Store
	bus      *eventbus.Bus[harness.Event]
	log      logger.Logger
	promPort string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	gen, err := generator.New(cfg.Harness.GeneratorConfig(), logger.New("generator"))
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := cfg.Logging.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("trial store: %w", err)
	}

	bus := eventbus.New[harness.Event](0)
	opts := []harness.Option{
		harness.WithSink(sink),
		harness.WithBus(bus),
		harness.WithLogger(logger.New("harness")),
	}
	if store != nil {
		opts = append(opts, harness.WithStore(store))
	}
	runner, err := harness.NewRunner(cfg.Harness.RunnerConfig(), gen, opts...)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("runner: %w", err)
	}

	return &Service{
		Runner:   runner,
		cfg:      cfg,
		sink:     sink,
		store:    store,
		bus:      bus,
		log:      logg,
		promPort: cfg.Metrics.PrometheusPort,
	}, nil
}

// Run executes the trials, logs the summary and writes the configured
// exports. It blocks until the run completes or ctx is cancelled.
func (s *Service) Run(ctx context.Context) (*harness.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if s.promPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	progress := s.bus.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.trackProgress(progress)
	}()

	s.log.Infow("run started", map[string]any{
		"run_id":       s.Runner.RunID(),
		"trials":       s.cfg.Harness.Trials,
		"distribution": s.cfg.Harness.Distribution,
		"seed":         s.cfg.Harness.Seed,
	})
	rep, err := s.Runner.Run(ctx)
	s.bus.Unsubscribe(progress)
	wg.Wait()
	tags := map[string]string{"run_id": s.Runner.RunID()}
	if err != nil {
		if ctx.Err() == nil {
			monitoring.CaptureException(err, tags)
		}
		return nil, err
	}
	s.logSummary(rep)
	if err := s.export(rep); err != nil {
		monitoring.CaptureException(err, tags)
		return rep, fmt.Errorf("export: %w", err)
	}
	return rep, nil
}

func (s *Service) trackProgress(events <-chan harness.Event) {
	for ev := range events {
		step := ev.Total / 10
		if step == 0 {
			step = 1
		}
		if ev.Completed%step != 0 && ev.Completed != ev.Total {
			continue
		}
		s.log.Debugw("progress", map[string]any{
			"run_id":    ev.RunID,
			"completed": ev.Completed,
			"total":     ev.Total,
		})
	}
}

func (s *Service) logSummary(rep *harness.Report) {
	cr, wcr := rep.CompetitiveRatio, rep.NormalizedRatio
	s.log.Infow("run complete", map[string]any{
		"run_id":     rep.RunID,
		"trials":     len(rep.Trials),
		"rejections": rep.Rejections,
		"cr_count":   cr.Count,
		"cr_mean":    cr.Mean,
		"cr_std_dev": cr.StdDev,
		"cr_lower":   cr.Lower,
		"cr_upper":   cr.Upper,
		"wcr_count":  wcr.Count,
		"wcr_mean":   wcr.Mean,
		"wcr_lower":  wcr.Lower,
		"wcr_upper":  wcr.Upper,
	})
}

func (s *Service) export(rep *harness.Report) error {
	exp := s.cfg.Export
	if err := writeFile(exp.CSVPath, func(w io.Writer) error { return export.WriteTrialsCSV(w, rep.Trials) }); err != nil {
		return err
	}
	if err := writeFile(exp.SummaryPath, func(w io.Writer) error { return export.WriteSummaryCSV(w, rep) }); err != nil {
		return err
	}
	return writeFile(exp.JSONPath, func(w io.Writer) error { return export.WriteJSON(w, rep) })
}

// writeFile is a no-op for an empty path.
func writeFile(path string, write func(io.Writer) error) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
