package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	serverhttp "scenic-score/server/http"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports, probes and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Addr()
			}
			r := serverhttp.NewRouter(a.cfg, serverhttp.Deps{
				Analyzer: a.agg,
				Loader:   a.loader,
				Prober:   a.prober,
				Metrics:  a.rec.Handler(),
			}, a.log)

			srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
			a.log.Info().Str("addr", addr).Str("data_dir", a.cfg.DataDir).Msg("server starting")

			errc := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			// graceful shutdown
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			select {
			case err := <-errc:
				if err != nil {
					a.log.Error().Err(err).Msg("listen")
					return err
				}
			case <-ctx.Done():
			}

			a.log.Info().Msg("server shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				return err
			}
			a.log.Info().Msg("bye")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default host:port from config)")
	return cmd
}
