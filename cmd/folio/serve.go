package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/cache"
	"folio/internal/database"
	"folio/internal/editor"
	"folio/internal/engine"
	"folio/internal/handlers"
	"folio/internal/render"
	"folio/internal/router"
	"folio/internal/session"
	"folio/internal/storage"
	"folio/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long:  `serve connects to PostgreSQL and Valkey, applies pending migrations, seeds the template catalog and serves the app until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(ctx, cfg.DSN(), cfg.DBConnectAttempts)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.Seed(db); err != nil {
		return err
	}
	if cfg.IsDev() {
		if err := database.SeedDemo(db); err != nil {
			return err
		}
	}

	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword, cfg.DBConnectAttempts)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient, cfg.SecureCookies())

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		return fmt.Errorf("initialize app templates: %w", err)
	}
	eng, err := engine.New()
	if err != nil {
		return fmt.Errorf("initialize section renderer: %w", err)
	}

	profileStore := store.NewProfileStore(db)
	portfolioStore := store.NewPortfolioStore(db)
	templateStore := store.NewTemplateStore(db)
	feedStore := store.NewFeedStore(db)

	// Cover uploads are optional; the app runs without object storage.
	var covers handlers.CoverStorage
	storageClient, err := storage.New(storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return fmt.Errorf("initialize s3 storage: %w", err)
	}
	if storageClient != nil {
		covers = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, cover uploads disabled")
	}

	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)

	workspace := editor.NewWorkspace(portfolioStore, eng, cfg.EditorIdleTimeout)
	defer workspace.Stop()

	h := router.Handlers{
		Auth:      handlers.NewAuth(renderer, sessionStore, profileStore),
		Settings:  handlers.NewSettings(renderer, sessionStore, profileStore),
		Dashboard: handlers.NewDashboard(renderer, portfolioStore, templateStore, covers, pageCache, workspace, cfg.BaseURL),
		Editor:    handlers.NewEditor(renderer, eng, workspace, portfolioStore, pageCache),
		Public:    handlers.NewPublic(renderer, eng, portfolioStore, feedStore, pageCache),
	}
	r, stopLimiters := router.New(sessionStore, h, router.Options{
		SecureCookies: cfg.SecureCookies(),
		AuthPerMinute: cfg.AuthRateLimit,
		CopyPerMinute: cfg.CopyRateLimit,
	})
	defer stopLimiters()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
