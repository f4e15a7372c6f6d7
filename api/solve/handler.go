package solve

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/evac/core/harness"
	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/solver"
)

// maxBody bounds the accepted instance document.
const maxBody = 1 << 20

// Response is the body returned by the solve endpoint.
type Response struct {
	Offline   solver.Result `json:"offline"`
	Online    solver.Result `json:"online"`
	Trial     model.Trial   `json:"trial"`
	Marginals []float64     `json:"marginals"`
	// LPCost is set when the request asks for verification.
	LPCost *float64 `json:"lp_cost,omitempty"`
}

// NewHandler returns an HTTP handler solving the instance posted as JSON to
// POST /api/solve. Passing verify=true also solves the LP formulation.
func NewHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var in model.Instance
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&in); err != nil {
			http.Error(w, "invalid instance: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := in.Validate(); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, model.ErrInfeasibleInstance) {
				status = http.StatusUnprocessableEntity
			}
			http.Error(w, err.Error(), status)
			return
		}

		resp, err := solve(in, r.URL.Query().Get("verify") == "true")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func solve(in model.Instance, verify bool) (Response, error) {
	off, err := solver.Offline{}.Solve(in)
	if err != nil {
		return Response{}, err
	}
	on, err := solver.Online{}.Solve(in)
	if err != nil {
		return Response{}, err
	}
	resp := Response{
		Offline:   off,
		Online:    on,
		Trial:     harness.Derive(0, in, off, on),
		Marginals: solver.Marginals(in.Days),
	}
	if verify {
		ref, err := solver.NewLP(0).Solve(in)
		if err != nil {
			return Response{}, err
		}
		resp.LPCost = &ref.Cost
	}
	return resp, nil
}
