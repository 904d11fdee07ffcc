package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gsheetagent/app/usecase"
	"gsheetagent/internal/infrastructure/metrics"
	"gsheetagent/internal/infrastructure/store/filesystem"
	"gsheetagent/internal/infrastructure/transport"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, logger := opts.cfg, opts.logger
	if err := cfg.Validate(); err != nil {
		return err
	}

	translator, err := newTranslator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	updater, err := newUpdater(cfg, logger)
	if err != nil {
		return err
	}
	journal, closeJournal, err := openJournal(ctx, cfg, logger)
	if err != nil {
		return err
	}
	projects := newProjects(cfg)

	// Usecases / services
	promptSvc := usecase.NewPromptService(translator, projects, updater, journal, cfg.LLM.Timeout, logger)
	setupSvc := usecase.NewSetupService(filesystem.NewTextFile(cfg.Templates.SetupScript), projects, updater, cfg.Script.DefaultTimezone, logger)
	scriptSvc := usecase.NewScriptService(projects, updater, cfg.Script.ProjectTitle, cfg.Script.DefaultTimezone, logger)

	handler := transport.NewAgentHandler(promptSvc, setupSvc, scriptSvc, cfg.LatestBuild(), logger)

	// Router and server
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(cfg.Server.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	metricsSrv := metrics.NewServer(cfg.Metrics.Addr)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("starting metrics server", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "err", err)
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "err", err)
		}
		closeJournal(shutdownCtx)
		return nil
	})

	err = g.Wait()
	if err != nil {
		logger.Error("server stopped with error", "err", err)
		return err
	}
	logger.Info("service stopped")
	return nil
}
