package harness

import (
	"math"

	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/solver"
)

// Derive builds the per-trial record from both solver results. Ratios that
// would divide by zero or come out non-finite are left nil.
func Derive(index int, in model.Instance, offline, online solver.Result) model.Trial {
	t := model.Trial{
		Index:       index,
		OfflineCost: offline.Cost,
		OnlineCost:  online.Cost,
		Difference:  online.Cost - offline.Cost,
	}
	pmin, pmax, ok := model.SeatPriceBounds(in.Days)
	t.MinSeatPrice, t.MaxSeatPrice = pmin, pmax

	if offline.Cost != 0 {
		if cr := online.Cost / offline.Cost; finite(cr) {
			t.CompetitiveRatio = &cr
		}
	}
	if !ok || pmin <= 0 {
		return t
	}
	tmr := pmax / pmin
	if !finite(tmr) {
		return t
	}
	t.TheoreticalMaxRatio = &tmr
	// Without a price spread the normalized ratio is 0 even when the
	// competitive ratio is undefined.
	if tmr == 1 {
		wcr := 0.0
		t.NormalizedRatio = &wcr
		return t
	}
	if t.CompetitiveRatio == nil {
		return t
	}
	if wcr := (*t.CompetitiveRatio - 1) / (tmr - 1); finite(wcr) {
		t.NormalizedRatio = &wcr
	}
	return t
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
