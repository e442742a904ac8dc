package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paiban/shiftplan/internal/handler"
	"github.com/paiban/shiftplan/internal/metrics"
	"github.com/paiban/shiftplan/internal/middleware"
	"github.com/paiban/shiftplan/pkg/logger"
)

func (a *app) serveCmd() *cobra.Command {
	var withDB bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, withDB)
		},
	}
	cmd.Flags().BoolVar(&withDB, "db", false, "persist generated runs in PostgreSQL")
	return cmd
}

func (a *app) serve(ctx context.Context, withDB bool) error {
	rc := a.runtime
	opts := handler.RouterOptions{
		APIKey:  rc.Server.APIKey,
		Timeout: rc.Server.WriteTimeout,
	}
	if rc.Server.RateLimit > 0 {
		rl := middleware.NewRateLimiter(rc.Server.RateLimit, rc.Server.RateWindow)
		go rl.Run(ctx)
		opts.RateLimiter = rl
	}
	if rc.Metrics.Enabled {
		rec := metrics.New(nil)
		a.facade.SetRecorder(rec)
		opts.Requests = rec
		opts.Metrics = metrics.Handler(nil)
		opts.MetricsPath = rc.Metrics.Path
	}

	var runs handler.RunRepository
	if withDB {
		repo, closeDB, err := a.openRepository(ctx)
		if err != nil {
			return err
		}
		defer closeDB()
		runs = repo
	}

	server := &http.Server{
		Addr:         rc.Server.Addr,
		Handler:      handler.NewRouter(handler.New(a.facade, runs), opts),
		ReadTimeout:  rc.Server.ReadTimeout,
		WriteTimeout: rc.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", rc.Server.Addr).
			Str("version", handler.Version).
			Bool("metrics", rc.Metrics.Enabled).
			Bool("db", withDB).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("正在关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rc.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("服务器已关闭")
	return nil
}
