package config

import (
	"fmt"

	"github.com/kilianp07/evac/core/generator"
	"github.com/kilianp07/evac/core/harness"
	"github.com/kilianp07/evac/core/model"
)

// HarnessConfig describes a batch of random trials.
type HarnessConfig struct {
	Population   model.Range `json:"population"`
	DayCount     model.Range `json:"day_count"`
	Seats        model.Range `json:"seats"`
	SeatPrice    model.Range `json:"seat_price"`
	HotelPrice   model.Range `json:"hotel_price"`
	Distribution string      `json:"distribution"`
	Seed         uint64      `json:"seed"`
	// MaxRejections caps infeasible draws per instance.
	MaxRejections int `json:"max_rejections"`
	Trials        int `json:"trials"`
	// Workers bounds concurrent evaluation; 0 uses GOMAXPROCS.
	Workers int `json:"workers"`
}

// SetDefaults fills unset ranges and counters. A range is unset when both
// bounds are zero. Load instead keys off the configuration sources, so an
// explicit {0, 0} range survives.
func (c *HarnessConfig) SetDefaults() {
	c.setDefaults(func(_ string, r model.Range) bool { return r != model.Range{} })
}

// setDefaults fills every range for which isSet reports false.
func (c *HarnessConfig) setDefaults(isSet func(key string, r model.Range) bool) {
	def := func(key string, r *model.Range, lower, upper int) {
		if !isSet(key, *r) {
			*r = model.Range{Lower: lower, Upper: upper}
		}
	}
	def("population", &c.Population, 10, 100)
	def("day_count", &c.DayCount, 1, 10)
	def("seats", &c.Seats, 0, 30)
	def("seat_price", &c.SeatPrice, 1, 100)
	def("hotel_price", &c.HotelPrice, 1, 50)
	if c.Distribution == "" {
		c.Distribution = string(model.DistributionUniform)
	}
	if c.MaxRejections == 0 {
		c.MaxRejections = generator.DefaultMaxRejections
	}
	if c.Trials == 0 {
		c.Trials = 1000
	}
}

// Validate checks the ranges, the distribution and the counters.
func (c HarnessConfig) Validate() error {
	if err := c.GeneratorConfig().Validate(); err != nil {
		return err
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: trials must be > 0, got %d", model.ErrInvalidConfiguration, c.Trials)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", model.ErrInvalidConfiguration, c.Workers)
	}
	return nil
}

// GeneratorConfig returns the sampling part of the configuration.
func (c HarnessConfig) GeneratorConfig() generator.Config {
	return generator.Config{
		Population:    c.Population,
		DayCount:      c.DayCount,
		Seats:         c.Seats,
		SeatPrice:     c.SeatPrice,
		HotelPrice:    c.HotelPrice,
		Distribution:  model.Distribution(c.Distribution),
		Seed:          c.Seed,
		MaxRejections: c.MaxRejections,
	}
}

// RunnerConfig returns the execution part of the configuration.
func (c HarnessConfig) RunnerConfig() harness.Config {
	return harness.Config{Trials: c.Trials, Workers: c.Workers}
}
