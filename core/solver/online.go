package solver

import "github.com/kilianp07/evac/core/model"

const NameOnline = "online"

// Online is the myopic strategy: each day it fills every available seat
// without looking at later days.
type Online struct{}

func (Online) Name() string { return NameOnline }

// Solve walks the days once in calendar order. Population left over after the
// last day is reported in Result.Remaining, not as an error.
func (Online) Solve(in model.Instance) (Result, error) {
	a := make(model.Assignment, len(in.Days))
	left := in.Population
	for i, d := range in.Days {
		n := min(left, d.Seats)
		a[i] = n
		left -= n
	}
	return finish(in, a), nil
}
