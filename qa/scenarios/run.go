package scenarios

import (
	"math"
	"testing"

	"github.com/kilianp07/evac/core/harness"
	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/solver"
)

const tolerance = 1e-6

// RunScenario solves the instance with every strategy and checks the
// expectations, including the LP cross-check of the offline optimum.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	if err := sc.Instance.Validate(); err != nil {
		t.Fatalf("instance: %v", err)
	}

	off := solve(t, solver.Offline{}, sc.Instance)
	on := solve(t, solver.Online{}, sc.Instance)
	ref := solve(t, solver.NewLP(0), sc.Instance)

	checkOutcome(t, "offline", off, sc.Expected.Offline)
	checkOutcome(t, "online", on, sc.Expected.Online)
	if math.Abs(ref.Cost-off.Cost) > tolerance*math.Max(1, off.Cost) {
		t.Errorf("lp cost %g differs from offline %g", ref.Cost, off.Cost)
	}
	if off.Cost > on.Cost+tolerance {
		t.Errorf("offline cost %g exceeds online %g", off.Cost, on.Cost)
	}

	tr := harness.Derive(0, sc.Instance, off, on)
	checkRatio(t, "competitive_ratio", tr.CompetitiveRatio, sc.Expected.CompetitiveRatio)
	checkRatio(t, "theoretical_max_ratio", tr.TheoreticalMaxRatio, sc.Expected.TheoreticalMaxRatio)
	checkRatio(t, "normalized_ratio", tr.NormalizedRatio, sc.Expected.NormalizedRatio)
}

func solve(t *testing.T, s solver.Solver, in model.Instance) solver.Result {
	t.Helper()
	res, err := s.Solve(in)
	if err != nil {
		t.Fatalf("%s: %v", s.Name(), err)
	}
	return res
}

func checkOutcome(t *testing.T, name string, got solver.Result, want Outcome) {
	t.Helper()
	if math.Abs(got.Cost-want.Cost) > tolerance {
		t.Errorf("%s cost = %g, want %g", name, got.Cost, want.Cost)
	}
	if len(want.Assignment) == 0 && got.Assignment.Sum() == 0 {
		return
	}
	if len(got.Assignment) != len(want.Assignment) {
		t.Errorf("%s assignment = %v, want %v", name, got.Assignment, want.Assignment)
		return
	}
	for i := range want.Assignment {
		if got.Assignment[i] != want.Assignment[i] {
			t.Errorf("%s assignment = %v, want %v", name, got.Assignment, want.Assignment)
			return
		}
	}
}

func checkRatio(t *testing.T, name string, got, want *float64) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %g, want undefined", name, *got)
	case want != nil && got == nil:
		t.Errorf("%s undefined, want %g", name, *want)
	case want != nil && math.Abs(*got-*want) > tolerance:
		t.Errorf("%s = %g, want %g", name, *got, *want)
	}
}
