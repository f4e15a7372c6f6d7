package generator

import (
	"fmt"

	"github.com/kilianp07/evac/core/model"
)

// DefaultMaxRejections caps consecutive infeasible draws for one instance.
const DefaultMaxRejections = 10000

// Config describes the sampling ranges for random instances. All ranges are
// inclusive on both ends; uniform draws treat Upper as exclusive.
type Config struct {
	Population   model.Range
	DayCount     model.Range
	Seats        model.Range
	SeatPrice    model.Range
	HotelPrice   model.Range
	Distribution model.Distribution
	Seed         uint64
	// MaxRejections bounds regeneration of infeasible instances. Zero selects
	// DefaultMaxRejections.
	MaxRejections int
}

// Validate checks ranges and the distribution selector.
func (c Config) Validate() error {
	ranges := []struct {
		name string
		r    model.Range
	}{
		{"population", c.Population},
		{"day_count", c.DayCount},
		{"seats", c.Seats},
		{"seat_price", c.SeatPrice},
		{"hotel_price", c.HotelPrice},
	}
	for _, r := range ranges {
		if err := r.r.Validate(); err != nil {
			return fmt.Errorf("%s: %w", r.name, err)
		}
	}
	if _, err := model.ParseDistribution(string(c.Distribution)); err != nil {
		return err
	}
	if c.MaxRejections < 0 {
		return fmt.Errorf("%w: max_rejections must be >= 0", model.ErrInvalidConfiguration)
	}
	return nil
}
