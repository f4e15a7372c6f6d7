package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evac/core/harness"
	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/solver"
	"github.com/kilianp07/evac/pkg/instance"
)

// lpTolerance is the relative gap accepted between the LP and greedy optima.
const lpTolerance = 1e-6

var (
	verify  bool
	explain bool
)

var solveCmd = &cobra.Command{
	Use:   "solve FILE",
	Short: "Solve one instance with both strategies",
	Long: `Solve one instance read from FILE (YAML, JSON or text, "-" for stdin).
The text form is the population, the day count, then one
"seats, seat price, hotel price" line per day.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().BoolVar(&verify, "verify", false, "cross-check the offline optimum with the LP solver")
	solveCmd.Flags().BoolVar(&explain, "explain", false, "print the marginal cost of each day")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	in, err := readInstance(cmd, args[0])
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	off, err := solver.Offline{}.Solve(in)
	if err != nil {
		return err
	}
	on, err := solver.Online{}.Solve(in)
	if err != nil {
		return err
	}
	var marginals []float64
	if explain {
		marginals = solver.Marginals(in.Days)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, renderAssignments(in, off, on, marginals)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, renderTrial(harness.Derive(0, in, off, on))); err != nil {
		return err
	}
	if !verify {
		return nil
	}
	ref, err := solver.NewLP(0).Solve(in)
	if err != nil {
		return fmt.Errorf("lp: %w", err)
	}
	if math.Abs(ref.Cost-off.Cost) > lpTolerance*math.Max(1, math.Abs(off.Cost)) {
		return fmt.Errorf("lp optimum %g differs from offline cost %g", ref.Cost, off.Cost)
	}
	_, err = fmt.Fprintf(out, "lp optimum %g matches offline cost\n", ref.Cost)
	return err
}

func readInstance(cmd *cobra.Command, path string) (model.Instance, error) {
	if path == "-" {
		return instance.Decode(cmd.InOrStdin(), instance.FormatText)
	}
	return instance.Load(path)
}
