package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evac/config"
	"github.com/kilianp07/evac/core/trials"
)

var (
	runID string
	since time.Duration
)

var trialsCmd = &cobra.Command{
	Use:   "trials",
	Short: "Trial record related commands",
}

var trialsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored trial records",
	RunE:  runTrialsLs,
}

func init() {
	trialsLsCmd.Flags().StringVar(&runID, "run", "", "only list trials of this run")
	trialsLsCmd.Flags().DurationVar(&since, "since", 0, "only list trials recorded within this duration")
	trialsCmd.AddCommand(trialsLsCmd)
	rootCmd.AddCommand(trialsCmd)
}

func runTrialsLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := cfg.Logging.OpenStore()
	if err != nil {
		return fmt.Errorf("trial store: %w", err)
	}
	if store == nil {
		return fmt.Errorf("trial store disabled (logging.backend=%s)", cfg.Logging.Backend)
	}
	defer func() {
		if err := store.Close(); err != nil {
			if _, ferr := fmt.Fprintf(cmd.ErrOrStderr(), "error while closing store: %v\n", err); ferr != nil {
				fmt.Println("failed to write to stderr:", ferr)
			}
		}
	}()

	q := trials.Query{RunID: runID}
	if since > 0 {
		q.Start = time.Now().Add(-since)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	recs, err := store.Query(ctx, q)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), renderRecords(recs))
	return err
}
