package solver

import (
	"errors"
	"fmt"

	"github.com/kilianp07/evac/core/factory"
	"github.com/kilianp07/evac/core/model"
)

// Result is the outcome of one solver run on one instance.
type Result struct {
	Assignment model.Assignment `json:"assignment"`
	Cost       float64          `json:"cost"`
	// Remaining is the population still waiting after the last day. It is
	// zero for feasible instances.
	Remaining int `json:"remaining"`
}

// Solver decides how many people depart on each day. Implementations assume
// the instance has been validated as feasible.
type Solver interface {
	Name() string
	Solve(in model.Instance) (Result, error)
}

// ErrUnknownSolver is returned by New for unregistered names.
var ErrUnknownSolver = errors.New("unknown solver")

var registry = factory.NewRegistry[Solver]()

func init() {
	_ = Register(NameOffline, func(map[string]any) (Solver, error) { return Offline{}, nil })
	_ = Register(NameOnline, func(map[string]any) (Solver, error) { return Online{}, nil })
	_ = Register(NameLP, func(conf map[string]any) (Solver, error) {
		var c struct {
			Tolerance float64 `json:"tolerance"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewLP(c.Tolerance), nil
	})
}

// Register adds a solver factory under name.
func Register(name string, f factory.Factory[Solver]) error {
	return registry.Register(name, f)
}

// New builds the solver registered under name with an empty configuration.
func New(name string) (Solver, error) {
	return Create(factory.ModuleConfig{Type: name})
}

// Create builds a solver from a module configuration.
func Create(cfg factory.ModuleConfig) (Solver, error) {
	if !registry.Has(cfg.Type) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSolver, cfg.Type)
	}
	return registry.Create(cfg)
}

// finish fills cost and remaining population for an assignment.
func finish(in model.Instance, a model.Assignment) Result {
	return Result{
		Assignment: a,
		Cost:       a.Cost(in.Population, in.Days),
		Remaining:  in.Population - a.Sum(),
	}
}
