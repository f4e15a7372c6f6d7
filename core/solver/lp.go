package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/evac/core/model"
)

const NameLP = "lp"

const defaultLPTolerance = 1e-7

// LP solves the offline problem as a linear program with the simplex method.
// It is slower than Offline and exists to cross-check it.
type LP struct {
	Tolerance float64
}

// NewLP returns an LP solver. A non-positive tolerance selects the default.
func NewLP(tol float64) LP {
	if tol <= 0 {
		tol = defaultLPTolerance
	}
	return LP{Tolerance: tol}
}

func (LP) Name() string { return NameLP }

// lpSolve points to the simplex call so tests can simulate solver failures.
var lpSolve = lp.Simplex

// Solve builds the standard form
//
//	min  Σ C[i]·A[i]
//	s.t. A[i] + S[i] = seats[i]
//	     Σ A[i]      = population
//	     A, S ≥ 0
//
// The constraint matrix is totally unimodular so the optimal vertex is
// integral; values are rounded to absorb simplex noise.
func (s LP) Solve(in model.Instance) (Result, error) {
	n := len(in.Days)
	if n == 0 || in.Population == 0 {
		return finish(in, make(model.Assignment, n)), nil
	}
	tol := s.Tolerance
	if tol <= 0 {
		tol = defaultLPTolerance
	}

	marg := Marginals(in.Days)
	c := make([]float64, 2*n)
	copy(c, marg)

	A := mat.NewDense(n+1, 2*n, nil)
	b := make([]float64, n+1)
	for i, d := range in.Days {
		A.Set(i, i, 1)
		A.Set(i, n+i, 1)
		b[i] = float64(d.Seats)
		A.Set(n, i, 1)
	}
	b[n] = float64(in.Population)

	_, x, err := lpSolve(c, A, b, tol, nil)
	if err != nil {
		return Result{}, fmt.Errorf("simplex: %w", err)
	}
	a := make(model.Assignment, n)
	for i := range a {
		v := int(math.Round(x[i]))
		if v < 0 {
			v = 0
		}
		if v > in.Days[i].Seats {
			v = in.Days[i].Seats
		}
		a[i] = v
	}
	return finish(in, a), nil
}
