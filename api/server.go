// Package api exposes the solvers and stored trials over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/evac/api/solve"
	apitrials "github.com/kilianp07/evac/api/trials"
	"github.com/kilianp07/evac/core/logger"
	"github.com/kilianp07/evac/core/trials"
)

// NewMux routes the API endpoints. The trials endpoint is only mounted when
// store is non-nil.
func NewMux(store trials.Store, token string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/solve", solve.NewHandler())
	if store != nil {
		mux.Handle("/api/trials", apitrials.NewHandler(store, token))
	}
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Serve runs an HTTP server on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, h http.Handler, log logger.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("api server shutdown: %v", err)
		}
		cancel()
	}()
	log.Infof("api listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
