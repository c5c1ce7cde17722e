package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"nft_marketplace/internal/app/service"
	"nft_marketplace/internal/infrastructure/restapi"
	"nft_marketplace/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Prerender the token pages and start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	app, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer app.Close()
	cfg, zapLogger := app.cfg, app.logger

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	pages := service.NewPageProvider(app.pages, cfg, logger.NewSlogAdapter("PageProvider"))
	if cfg.PrerenderEnabled() {
		prerenderCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Pages.PrerenderTimeoutSec)*time.Second)
		rendered, err := pages.Prerender(prerenderCtx)
		cancel()
		if err != nil {
			zapLogger.Error("Failed to enumerate token pages", zap.Error(err))
			return fmt.Errorf("prerender failed: %w", err)
		}
		zapLogger.Info("Token pages prerendered", zap.Int("count", rendered))
	}

	router, err := restapi.SetupRouter(pages, cfg, app.network, zapLogger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			zapLogger.Error("Failed to start server", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	pages.WaitIdle()

	zapLogger.Info("Server exiting")
	return nil
}
