package harness

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/evac/core/logger"
	"github.com/kilianp07/evac/core/metrics"
	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/solver"
	"github.com/kilianp07/evac/core/stats"
	"github.com/kilianp07/evac/core/trials"
	"github.com/kilianp07/evac/internal/eventbus"
)

// Config controls how many trials run and on how many workers.
type Config struct {
	Trials int `json:"trials"`
	// Workers bounds concurrent trial evaluation. Zero uses GOMAXPROCS.
	Workers int `json:"workers"`
}

// Source yields feasible instances. *generator.Generator implements it.
type Source interface {
	Next() (model.Instance, error)
	Rejections() int
}

// Event reports the progress of a run to bus subscribers.
type Event struct {
	RunID     string
	Completed int
	Total     int
	Trial     model.Trial
}

// Report is the outcome of a run.
type Report struct {
	RunID            string        `json:"run_id"`
	Trials           []model.Trial `json:"trials"`
	Rejections       int           `json:"rejections"`
	CompetitiveRatio stats.Summary `json:"competitive_ratio"`
	NormalizedRatio  stats.Summary `json:"normalized_ratio"`
}

// Runner evaluates both strategies on many random instances.
type Runner struct {
	cfg     Config
	src     Source
	offline solver.Solver
	online  solver.Solver
	sink    metrics.TrialSink
	store   trials.Store
	bus     eventbus.Publisher[Event]
	log     logger.Logger
	runID   string
	now     func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithSink records every trial and the final summaries on s.
func WithSink(s metrics.TrialSink) Option { return func(r *Runner) { r.sink = s } }

// WithStore persists every trial to s.
func WithStore(s trials.Store) Option { return func(r *Runner) { r.store = s } }

// WithBus publishes progress events on b.
func WithBus(b eventbus.Publisher[Event]) Option { return func(r *Runner) { r.bus = b } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(r *Runner) { r.log = l } }

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option { return func(r *Runner) { r.runID = id } }

// WithSolvers replaces the offline and online strategies.
func WithSolvers(offline, online solver.Solver) Option {
	return func(r *Runner) { r.offline, r.online = offline, online }
}

// NewRunner validates cfg and wires the defaults: Offline against Online, no
// sink, no store.
func NewRunner(cfg Config, src Source, opts ...Option) (*Runner, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be > 0, got %d", model.ErrInvalidConfiguration, cfg.Trials)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must be >= 0, got %d", model.ErrInvalidConfiguration, cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil instance source", model.ErrInvalidConfiguration)
	}
	r := &Runner{
		cfg:     cfg,
		src:     src,
		offline: solver.Offline{},
		online:  solver.Online{},
		sink:    metrics.NopSink{},
		runID:   uuid.NewString(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// RunID returns the identifier attached to every record of this run.
func (r *Runner) RunID() string { return r.runID }

// Run generates the instances, evaluates them and aggregates the ratios.
//
// Instances are drawn sequentially so a seed fixes the whole run; evaluation
// runs on up to cfg.Workers goroutines and results are slotted by trial index,
// so the report does not depend on scheduling.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	instances := make([]model.Instance, r.cfg.Trials)
	for i := range instances {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in, err := r.src.Next()
		if err != nil {
			return nil, fmt.Errorf("generate trial %d: %w", i, err)
		}
		instances[i] = in
	}
	r.debugf("run %s: generated %d instances (%d rejected)", r.runID, len(instances), r.src.Rejections())

	results := make([]model.Trial, len(instances))
	done := make(chan model.Trial)
	errc := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	go func() {
		for i := range instances {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				t, err := r.evaluate(i, instances[i])
				if err != nil {
					return err
				}
				select {
				case done <- t:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		errc <- g.Wait()
		close(done)
	}()

	completed := 0
	for t := range done {
		results[t.Index] = t
		completed++
		r.record(ctx, t, len(instances[t.Index].Days), completed)
	}
	if err := <-errc; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := r.aggregate(results)
	r.recordSummaries(rep)
	return rep, nil
}

func (r *Runner) evaluate(i int, in model.Instance) (model.Trial, error) {
	if err := in.Validate(); err != nil {
		return model.Trial{}, fmt.Errorf("trial %d: %w", i, err)
	}
	off, err := r.offline.Solve(in)
	if err != nil {
		return model.Trial{}, fmt.Errorf("trial %d %s: %w", i, r.offline.Name(), err)
	}
	on, err := r.online.Solve(in)
	if err != nil {
		return model.Trial{}, fmt.Errorf("trial %d %s: %w", i, r.online.Name(), err)
	}
	return Derive(i, in, off, on), nil
}

// record forwards a trial to the sink, store and bus. Observer failures are
// logged and never abort the run.
func (r *Runner) record(ctx context.Context, t model.Trial, days, completed int) {
	now := r.now()
	if err := r.sink.RecordTrial(metrics.TrialEvent{RunID: r.runID, Trial: t, Days: days, Time: now}); err != nil {
		r.warnf("record trial %d: %v", t.Index, err)
	}
	if r.store != nil {
		rec := trials.Record{RunID: r.runID, Timestamp: now, Days: days, Trial: t}
		if err := r.store.Append(ctx, rec); err != nil {
			r.warnf("store trial %d: %v", t.Index, err)
		}
	}
	if r.bus != nil {
		r.bus.Publish(Event{RunID: r.runID, Completed: completed, Total: r.cfg.Trials, Trial: t})
	}
}

func (r *Runner) aggregate(results []model.Trial) *Report {
	var cr, wcr []float64
	for _, t := range results {
		if t.CompetitiveRatio != nil {
			cr = append(cr, *t.CompetitiveRatio)
		}
		if t.NormalizedRatio != nil {
			wcr = append(wcr, *t.NormalizedRatio)
		}
	}
	return &Report{
		RunID:            r.runID,
		Trials:           results,
		Rejections:       r.src.Rejections(),
		CompetitiveRatio: stats.Summarize(cr),
		NormalizedRatio:  stats.Summarize(wcr),
	}
}

func (r *Runner) recordSummaries(rep *Report) {
	rec, ok := r.sink.(metrics.SummaryRecorder)
	if !ok {
		return
	}
	now := r.now()
	for metric, s := range map[string]stats.Summary{
		metrics.MetricCompetitiveRatio: rep.CompetitiveRatio,
		metrics.MetricNormalizedRatio:  rep.NormalizedRatio,
	} {
		ev := metrics.SummaryEvent{RunID: rep.RunID, Metric: metric, Summary: s, Rejections: rep.Rejections, Time: now}
		if err := rec.RecordSummary(ev); err != nil {
			r.warnf("record summary %s: %v", metric, err)
		}
	}
}

func (r *Runner) debugf(format string, args ...any) {
	if r.log != nil {
		r.log.Debugf(format, args...)
	}
}

func (r *Runner) warnf(format string, args ...any) {
	if r.log != nil {
		r.log.Warnf(format, args...)
	}
}
