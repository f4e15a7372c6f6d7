package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evac/api"
	"github.com/kilianp07/evac/config"
	"github.com/kilianp07/evac/core/monitoring"
	"github.com/kilianp07/evac/infra/logger"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the solve and trials HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides api.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := initMonitoring(cfg); err != nil {
		return err
	}
	defer monitoring.Flush(2 * time.Second)
	if addr != "" {
		cfg.API.Addr = addr
	}
	logg := logger.New("api")
	store, err := cfg.Logging.OpenStore()
	if err != nil {
		return fmt.Errorf("trial store: %w", err)
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logg.Errorf("store close: %v", err)
			}
		}()
	}
	return api.Serve(ctx, cfg.API.Addr, api.NewMux(store, cfg.API.Token), logg)
}
