package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/evac/core/logger"
	"github.com/kilianp07/evac/core/model"
)

// ErrFeasibilityExhausted is returned when no feasible instance was drawn
// within the rejection budget, or the ranges can never yield one.
var ErrFeasibilityExhausted = errors.New("no feasible instance within rejection budget")

// Generator draws random problem instances. It is not safe for concurrent use;
// a fixed seed yields the same sequence of instances.
type Generator struct {
	cfg        Config
	dist       model.Distribution
	src        *rand.PCG
	rand       *rand.Rand
	log        logger.Logger
	rejections int
}

// New validates cfg and returns a seeded Generator. log may be nil.
func New(cfg Config, log logger.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dist, _ := model.ParseDistribution(string(cfg.Distribution))
	if cfg.MaxRejections == 0 {
		cfg.MaxRejections = DefaultMaxRejections
	}
	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	return &Generator{
		cfg:  cfg,
		dist: dist,
		src:  src,
		rand: rand.New(src),
		log:  log,
	}, nil
}

// Rejections returns the number of infeasible instances discarded so far.
func (g *Generator) Rejections() int { return g.rejections }

// Next draws instances until one is feasible.
func (g *Generator) Next() (model.Instance, error) {
	if g.cfg.Population.Lower > g.cfg.DayCount.Upper*g.cfg.Seats.Upper {
		return model.Instance{}, fmt.Errorf("%w: population lower bound %d exceeds %d days x %d seats",
			ErrFeasibilityExhausted, g.cfg.Population.Lower, g.cfg.DayCount.Upper, g.cfg.Seats.Upper)
	}
	for attempt := 0; attempt <= g.cfg.MaxRejections; attempt++ {
		in := g.draw()
		if in.Feasible() {
			return in, nil
		}
		g.rejections++
		if g.log != nil {
			g.log.Debugf("rejected instance: population %d > %d seats", in.Population, in.TotalSeats())
		}
	}
	return model.Instance{}, fmt.Errorf("%w: %d attempts", ErrFeasibilityExhausted, g.cfg.MaxRejections+1)
}

func (g *Generator) draw() model.Instance {
	pop := g.sample(g.cfg.Population)
	n := g.sample(g.cfg.DayCount)
	days := make([]model.Day, n)
	for i := range days {
		days[i] = model.Day{
			Seats:         g.sample(g.cfg.Seats),
			PricePerSeat:  float64(g.sample(g.cfg.SeatPrice)),
			PricePerHotel: float64(g.sample(g.cfg.HotelPrice)),
		}
	}
	return model.Instance{Population: pop, Days: days}
}

func (g *Generator) sample(r model.Range) int {
	if r.Width() == 0 {
		return r.Lower
	}
	switch g.dist {
	case model.DistributionNormal:
		return g.normal(r)
	default:
		return r.Lower + g.rand.IntN(r.Width())
	}
}

// normal draws around the midpoint with the range spanning ±3σ, then clamps.
func (g *Generator) normal(r model.Range) int {
	d := distuv.Normal{
		Mu:    float64(r.Lower+r.Upper) / 2,
		Sigma: float64(r.Width()) / 6,
		Src:   g.src,
	}
	v := int(math.Round(d.Rand()))
	if v < r.Lower {
		return r.Lower
	}
	if v > r.Upper {
		return r.Upper
	}
	return v
}
