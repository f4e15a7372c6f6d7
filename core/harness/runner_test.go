package harness

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kilianp07/evac/core/generator"
	"github.com/kilianp07/evac/core/metrics"
	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/solver"
	"github.com/kilianp07/evac/core/trials"
	"github.com/kilianp07/evac/infra/logger"
	"github.com/kilianp07/evac/internal/eventbus"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func genConfig(seed uint64) generator.Config {
	return generator.Config{
		Population:   model.Range{Lower: 1, Upper: 40},
		DayCount:     model.Range{Lower: 1, Upper: 8},
		Seats:        model.Range{Lower: 1, Upper: 15},
		SeatPrice:    model.Range{Lower: 0, Upper: 6},
		HotelPrice:   model.Range{Lower: 0, Upper: 4},
		Distribution: model.DistributionUniform,
		Seed:         seed,
	}
}

func newGen(t *testing.T, seed uint64) *generator.Generator {
	t.Helper()
	g, err := generator.New(genConfig(seed), logger.NopLogger{})
	require.NoError(t, err)
	return g
}

type fixedSource struct {
	instances []model.Instance
	next      int
}

func (s *fixedSource) Next() (model.Instance, error) {
	in := s.instances[s.next%len(s.instances)]
	s.next++
	return in, nil
}

func (s *fixedSource) Rejections() int { return 0 }

type captureSink struct {
	trials    []metrics.TrialEvent
	summaries []metrics.SummaryEvent
	err       error
}

func (c *captureSink) RecordTrial(ev metrics.TrialEvent) error {
	c.trials = append(c.trials, ev)
	return c.err
}

func (c *captureSink) RecordSummary(ev metrics.SummaryEvent) error {
	c.summaries = append(c.summaries, ev)
	return nil
}

func TestRunnerAggregates(t *testing.T) {
	sink := &captureSink{}
	r, err := NewRunner(Config{Trials: 200, Workers: 4}, newGen(t, 1), WithSink(sink), WithLogger(logger.NopLogger{}))
	require.NoError(t, err)
	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Trials, 200)
	assert.Len(t, sink.trials, 200)
	assert.Len(t, sink.summaries, 2)

	withSpread := 0
	defined := 0
	for i, tr := range rep.Trials {
		assert.Equal(t, i, tr.Index)
		assert.LessOrEqual(t, tr.OfflineCost, tr.OnlineCost+1e-9)
		if tr.MinSeatPrice > 0 {
			withSpread++
			assert.NotNil(t, tr.NormalizedRatio)
			assert.NotNil(t, tr.TheoreticalMaxRatio)
		} else {
			assert.Nil(t, tr.NormalizedRatio)
			assert.Nil(t, tr.TheoreticalMaxRatio)
		}
		if tr.CompetitiveRatio != nil {
			defined++
			assert.GreaterOrEqual(t, *tr.CompetitiveRatio, 1-1e-9)
		}
	}
	assert.Positive(t, withSpread)
	assert.Less(t, withSpread, 200)
	assert.Equal(t, withSpread, rep.NormalizedRatio.Count)
	assert.Equal(t, defined, rep.CompetitiveRatio.Count)
	assert.GreaterOrEqual(t, rep.CompetitiveRatio.Mean, 1.0)
	assert.GreaterOrEqual(t, rep.NormalizedRatio.Lower, 0.0)
}

func TestRunnerDeterministicAcrossWorkers(t *testing.T) {
	var reports []*Report
	for _, workers := range []int{1, 3, 8} {
		r, err := NewRunner(Config{Trials: 60, Workers: workers}, newGen(t, 99), WithRunID("fixed"))
		require.NoError(t, err)
		rep, err := r.Run(context.Background())
		require.NoError(t, err)
		reports = append(reports, rep)
	}
	assert.Equal(t, reports[0], reports[1])
	assert.Equal(t, reports[0], reports[2])
}

func TestRunnerFlatPrices(t *testing.T) {
	src := &fixedSource{instances: []model.Instance{{
		Population: 6,
		Days:       []model.Day{{Seats: 2, PricePerSeat: 4}, {Seats: 5, PricePerSeat: 4}},
	}}}
	r, err := NewRunner(Config{Trials: 5, Workers: 2}, src)
	require.NoError(t, err)
	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, rep.CompetitiveRatio.Count)
	assert.Equal(t, 1.0, rep.CompetitiveRatio.Mean)
	assert.Zero(t, rep.CompetitiveRatio.StdDev)
	assert.Equal(t, 5, rep.NormalizedRatio.Count)
	assert.Zero(t, rep.NormalizedRatio.Mean)
}

func TestRunnerRejectsInfeasibleSource(t *testing.T) {
	src := &fixedSource{instances: []model.Instance{{Population: 3, Days: []model.Day{{Seats: 1}}}}}
	r, err := NewRunner(Config{Trials: 3, Workers: 2}, src)
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	assert.ErrorIs(t, err, model.ErrInfeasibleInstance)
}

type failingSolver struct{}

func (failingSolver) Name() string { return "failing" }
func (failingSolver) Solve(model.Instance) (solver.Result, error) {
	return solver.Result{}, errors.New("solver exploded")
}

func TestRunnerSolverError(t *testing.T) {
	r, err := NewRunner(Config{Trials: 20, Workers: 4}, newGen(t, 5), WithSolvers(failingSolver{}, solver.Online{}))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	assert.ErrorContains(t, err, "solver exploded")
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := NewRunner(Config{Trials: 10}, newGen(t, 5))
	require.NoError(t, err)
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerSinkErrorsDoNotAbort(t *testing.T) {
	sink := &captureSink{err: errors.New("sink down")}
	r, err := NewRunner(Config{Trials: 10, Workers: 2}, newGen(t, 3), WithSink(sink), WithLogger(logger.NopLogger{}))
	require.NoError(t, err)
	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, rep.Trials, 10)
}

func TestRunnerPublishesAndStores(t *testing.T) {
	store, err := trials.NewSQLiteStore(filepath.Join(t.TempDir(), "trials.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	bus := eventbus.New[Event](32)
	defer bus.Close()
	ch := bus.Subscribe()

	r, err := NewRunner(Config{Trials: 12, Workers: 3}, newGen(t, 8), WithStore(store), WithBus(bus))
	require.NoError(t, err)
	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	last := 0
	for i := 0; i < 12; i++ {
		ev := <-ch
		assert.Equal(t, rep.RunID, ev.RunID)
		assert.Equal(t, 12, ev.Total)
		last = ev.Completed
	}
	assert.Equal(t, 12, last)

	recs, err := store.Query(context.Background(), trials.Query{RunID: r.RunID()})
	require.NoError(t, err)
	assert.Len(t, recs, 12)
}

func TestNewRunnerValidation(t *testing.T) {
	_, err := NewRunner(Config{Trials: 0}, &fixedSource{})
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
	_, err = NewRunner(Config{Trials: 1, Workers: -1}, &fixedSource{})
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
	_, err = NewRunner(Config{Trials: 1}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}
