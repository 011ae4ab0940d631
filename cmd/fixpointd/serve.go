package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fixpoint-backend/internal/api"
	"fixpoint-backend/internal/db"
	"fixpoint-backend/internal/notification"
	"fixpoint-backend/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	appStore := store.NewGormStore(gormDB, store.WithStrictTransitions(cfg.Quotes.StrictTransitions))
	log.Info().Bool("strict_transitions", cfg.Quotes.StrictTransitions).Msg("data store initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		webpushOptions *webpush.Options
		notifier       api.Notifier
		workers        *notification.WorkerPool
	)
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		workers = notification.NewWorkerPool(cfg.WorkerPool.Size, appStore.Subscriptions, webpushOptions)
		workers.Start(ctx)
		notifier = workers
		log.Info().Int("workers", cfg.WorkerPool.Size).Msg("push notifications enabled")
	} else {
		log.Warn().Msg("VAPID keys not configured, push notifications disabled")
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(appStore, &cfg.Server, webpushOptions, notifier)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutdown signal received, stopping services")
	case err := <-serverErr:
		return fmt.Errorf("HTTP server ListenAndServe: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}

	cancel()
	if workers != nil {
		workers.Wait()
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info().Msg("server gracefully stopped")
	return nil
}
