package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nbenliogludev/go-testcase-generator/internal/api"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, "")
	if err != nil {
		return err
	}
	defer a.Close()

	handler := api.NewHandler(a.generator, a.chain, a.local, a.log)
	router := api.NewRouter(handler, a.cfg.CORSAllowedOrigins, a.log)

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	server := &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// one provider call plus formatting
		WriteTimeout: a.cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("Starting HTTP server",
			zap.String("port", a.cfg.ServerPort),
			zap.String("env", a.cfg.Env),
			zap.String("provider", a.cfg.LLMProvider),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.log.Error("Server forced to shutdown", zap.Error(err))
			return err
		}
		a.log.Info("Server exited gracefully")
		return nil
	})

	return g.Wait()
}
