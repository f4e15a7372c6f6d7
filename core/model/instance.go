package model

import "fmt"

// Instance is one problem: a population to move over days in calendar order.
type Instance struct {
	Population int   `json:"population" yaml:"population"`
	Days       []Day `json:"days" yaml:"days"`
}

// TotalSeats returns the seats offered over all days.
func (in Instance) TotalSeats() int {
	total := 0
	for _, d := range in.Days {
		total += d.Seats
	}
	return total
}

// Feasible reports whether every person can be given a seat.
func (in Instance) Feasible() bool {
	return in.Population <= in.TotalSeats()
}

// Validate checks the instance can be handed to a solver. Infeasible instances
// are reported with ErrInfeasibleInstance.
func (in Instance) Validate() error {
	if in.Population < 0 {
		return fmt.Errorf("%w: negative population %d", ErrInvalidInstance, in.Population)
	}
	for i, d := range in.Days {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("day %d: %w", i, err)
		}
	}
	if !in.Feasible() {
		return fmt.Errorf("%w: population %d exceeds %d seats", ErrInfeasibleInstance, in.Population, in.TotalSeats())
	}
	return nil
}

// Assignment holds the number of departures per day, indexed like Instance.Days.
type Assignment []int

// Sum returns the total number of departures.
func (a Assignment) Sum() int {
	total := 0
	for _, n := range a {
		total += n
	}
	return total
}

// Cost prices the assignment with the actual day prices: seats used on each
// day plus one night of hotel for everyone still waiting after that day.
func (a Assignment) Cost(population int, days []Day) float64 {
	var total float64
	left := population
	for i, d := range days {
		sent := 0
		if i < len(a) {
			sent = a[i]
		}
		left -= sent
		total += d.PricePerSeat * float64(sent)
		total += d.PricePerHotel * float64(left)
	}
	return total
}
