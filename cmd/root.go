package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evac/app"
	"github.com/kilianp07/evac/config"
	"github.com/kilianp07/evac/core/monitoring"
	"github.com/kilianp07/evac/infra/logger"
	inframon "github.com/kilianp07/evac/infra/monitoring"
)

var (
	cfgPath string
	trialsN int
	seed    uint64
	workers int
)

var rootCmd = &cobra.Command{
	Use:          "evac",
	Short:        "Compare offline and online evacuation seat allocation on random instances",
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.Flags().IntVarP(&trialsN, "trials", "n", 0, "override harness.trials")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "override harness.seed")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "override harness.workers")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		return err
	}
	if err := initMonitoring(cfg); err != nil {
		return err
	}
	defer monitoring.Flush(2 * time.Second)
	defer monitoring.Recover()

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	rep, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), renderReport(rep))
	return err
}

func initMonitoring(cfg *config.Config) error {
	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)
	return nil
}

// applyOverrides copies explicitly set flags over the loaded configuration.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("trials") {
		cfg.Harness.Trials = trialsN
	}
	if flags.Changed("seed") {
		cfg.Harness.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Harness.Workers = workers
	}
	return cfg.Validate()
}
