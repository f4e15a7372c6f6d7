package solver

import (
	"sort"

	"github.com/kilianp07/evac/core/model"
)

const NameOffline = "offline"

// Offline computes the cost-minimal assignment knowing every day in advance.
//
// A person leaving on day i pays the hotel for every earlier night plus the
// seat on day i, so the total cost is linear in that per-person marginal
// cost. Filling the days in ascending marginal order is therefore optimal.
type Offline struct{}

func (Offline) Name() string { return NameOffline }

// Marginals returns C[i], the cost of one person waiting through days 0..i-1
// and departing on day i.
func Marginals(days []model.Day) []float64 {
	c := make([]float64, len(days))
	var hotel float64
	for i, d := range days {
		c[i] = hotel + d.PricePerSeat
		hotel += d.PricePerHotel
	}
	return c
}

// Order returns day indices sorted by marginal cost, ties kept in calendar order.
func Order(days []model.Day) []int {
	c := Marginals(days)
	order := make([]int, len(days))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return c[order[a]] < c[order[b]] })
	return order
}

// Solve fills the cheapest days first. The reported cost is recomputed from
// the assignment with the real day prices.
func (Offline) Solve(in model.Instance) (Result, error) {
	a := make(model.Assignment, len(in.Days))
	left := in.Population
	for _, i := range Order(in.Days) {
		if left <= 0 {
			break
		}
		n := min(left, in.Days[i].Seats)
		a[i] = n
		left -= n
	}
	return finish(in, a), nil
}
