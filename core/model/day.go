package model

import (
	"fmt"
	"math"
)

// Day describes the transport capacity and prices offered on one calendar day.
type Day struct {
	Seats         int     `json:"seats" yaml:"seats"`
	PricePerSeat  float64 `json:"price_per_seat" yaml:"price_per_seat"`
	PricePerHotel float64 `json:"price_per_hotel" yaml:"price_per_hotel"`
}

// Validate rejects negative seats and negative or non-finite prices.
func (d Day) Validate() error {
	if d.Seats < 0 {
		return fmt.Errorf("%w: negative seats %d", ErrInvalidInstance, d.Seats)
	}
	if d.PricePerSeat < 0 || d.PricePerHotel < 0 {
		return fmt.Errorf("%w: negative price (seat=%g hotel=%g)", ErrInvalidInstance, d.PricePerSeat, d.PricePerHotel)
	}
	for _, p := range []float64{d.PricePerSeat, d.PricePerHotel} {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: non-finite price (seat=%g hotel=%g)", ErrInvalidInstance, d.PricePerSeat, d.PricePerHotel)
		}
	}
	return nil
}

// String mirrors the "seats, seat price, hotel price" input line format.
func (d Day) String() string {
	return fmt.Sprintf("%d, %g, %g", d.Seats, d.PricePerSeat, d.PricePerHotel)
}

// SeatPriceBounds returns the cheapest and most expensive seat price over days.
// ok is false when days is empty.
func SeatPriceBounds(days []Day) (min, max float64, ok bool) {
	if len(days) == 0 {
		return 0, 0, false
	}
	min, max = days[0].PricePerSeat, days[0].PricePerSeat
	for _, d := range days[1:] {
		if d.PricePerSeat < min {
			min = d.PricePerSeat
		}
		if d.PricePerSeat > max {
			max = d.PricePerSeat
		}
	}
	return min, max, true
}
